package scene

import (
	"testing"

	"github.com/Carmen-Shannon/orbit-go/engine/model"

	"github.com/stretchr/testify/assert"
)

func TestSetModelReturnsDisplaced(t *testing.T) {
	s := NewScene()

	first := model.NewModel(model.WithName("first"))
	second := model.NewModel(model.WithName("second"))

	assert.Nil(t, s.SetModel(first))
	assert.Equal(t, first, s.Model())

	displaced := s.SetModel(second)
	assert.Equal(t, first, displaced)
	assert.Equal(t, second, s.Model())
}

func TestRemoveModelClearsSlot(t *testing.T) {
	s := NewScene()
	assert.Nil(t, s.RemoveModel())

	m := model.NewModel(model.WithName("only"))
	s.SetModel(m)

	removed := s.RemoveModel()
	assert.Equal(t, m, removed)
	assert.Nil(t, s.Model())
}

func TestSceneActiveToggle(t *testing.T) {
	s := NewScene()
	assert.True(t, s.Active())

	s.SetActive(false)
	assert.False(t, s.Active())

	inactive := NewScene(WithInactive())
	assert.False(t, inactive.Active())
}

func TestRenderFrameWithoutRendererIsNoop(t *testing.T) {
	// No renderer configured; must not panic even with a model installed.
	s := NewScene()
	s.SetModel(model.NewModel(model.WithName("m")))
	s.RenderFrame()
}
