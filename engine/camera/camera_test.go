package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomClampsToRadiusBounds(t *testing.T) {
	cc := NewOrbitController(
		WithRadius(5),
		WithRadiusBounds(1, 10),
		WithZoomSpeed(1),
	)

	// Zoom in far past the minimum.
	for range 100 {
		cc.Zoom(1)
	}
	assert.InDelta(t, 1.0, cc.Radius(), 1e-6)

	// Zoom out far past the maximum.
	for range 100 {
		cc.Zoom(-1)
	}
	assert.InDelta(t, 10.0, cc.Radius(), 1e-6)
}

func TestElevationClamps(t *testing.T) {
	cc := NewOrbitController()

	for range 1000 {
		cc.OrbitUp()
	}
	assert.LessOrEqual(t, cc.Elevation(), float32(math.Pi/2))

	for range 1000 {
		cc.OrbitDown()
	}
	assert.GreaterOrEqual(t, cc.Elevation(), float32(-math.Pi/2))
}

func TestPositionFollowsSphericalCoords(t *testing.T) {
	cc := NewOrbitController(
		WithRadius(2),
		WithRadiusBounds(0.1, 100),
		WithAzimuth(0),
		WithElevation(0),
	)
	// azimuth 0, elevation 0 puts the camera on the +Z axis.
	x, y, z := cc.Position()
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 2, z, 1e-5)

	cc.SetAzimuth(float32(math.Pi / 2))
	x, _, z = cc.Position()
	assert.InDelta(t, 2, x, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
}

func TestOrbitPreservesRadius(t *testing.T) {
	cc := NewOrbitController(WithRadius(3), WithRadiusBounds(0.1, 100))
	before := cc.Radius()

	cc.Orbit(120, -35)
	cc.OrbitLeft()
	cc.OrbitUp()

	assert.InDelta(t, float64(before), float64(cc.Radius()), 1e-6)

	tx, ty, tz := cc.Target()
	px, py, pz := cc.Position()
	dx, dy, dz := px-tx, py-ty, pz-tz
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	assert.InDelta(t, float64(before), dist, 1e-4)
}

func TestFrameFitsBoundingRadius(t *testing.T) {
	cc := NewOrbitController(WithRadiusBounds(1, 10))

	cc.Frame(2)
	assert.InDelta(t, 2*framingFactor, cc.Radius(), 1e-5)

	// A huge model widens the max bound instead of clamping uselessly.
	cc.Frame(100)
	assert.InDelta(t, 100*framingFactor, cc.Radius(), 1e-3)
	assert.Greater(t, cc.MaxRadius(), float32(100*framingFactor-1))

	// A tiny model lowers the min bound so zooming in still works.
	cc.Frame(0.01)
	assert.Less(t, cc.MinRadius(), float32(0.01))
}

func TestCameraUpdateReadsController(t *testing.T) {
	cc := NewOrbitController(WithRadius(4), WithRadiusBounds(0.1, 100))
	cam := NewCamera(WithController(cc), WithAspect(16.0/9.0))

	require.NotNil(t, cam.Controller())

	before := cam.ViewMatrix()
	cc.Orbit(200, 50)
	cam.Update()
	after := cam.ViewMatrix()

	assert.NotEqual(t, before, after)
}

func TestCameraSetAspectIgnoresNonPositive(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	cam.SetAspect(0)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	cam.SetAspect(-1)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	cam.SetAspect(1.5)
	assert.InDelta(t, 1.5, cam.Aspect(), 1e-6)
}
