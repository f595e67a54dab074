// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// SamplerParams holds texture sampling parameters extracted from a model file.
// Values are the raw glTF sampler enums; the renderer maps them to API-specific
// constants at upload time. Zero values mean "use the renderer default"
// (linear filtering, repeat wrapping).
type SamplerParams struct {
	// MagFilter is the magnification filter (glTF enum, e.g. 9728 = NEAREST, 9729 = LINEAR).
	MagFilter int

	// MinFilter is the minification filter (glTF enum).
	MinFilter int

	// WrapS is the addressing mode for the U coordinate (glTF enum, e.g. 10497 = REPEAT).
	WrapS int

	// WrapT is the addressing mode for the V coordinate (glTF enum).
	WrapT int
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Opaque forces an alpha of 1.0 regardless of the imported alpha mode.
	Opaque bool

	// DoubleSided disables back-face culling for meshes using this material.
	DoubleSided bool

	// BaseColorTexture holds embedded base color texture data (if present).
	BaseColorTexture *ImportedTexture
}

// ImportedTexture represents texture data extracted from a model file.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "diffuse", "normal").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// Pixels holds decoded RGBA pixel data (populated after Decode).
	Pixels []byte

	// Sampler holds sampling parameters extracted from the model file.
	// When non-nil, these values override the default linear/repeat settings
	// used during texture upload.
	Sampler *SamplerParams
}

// Decode decodes the texture to raw RGBA pixel data and caches the result on
// the texture. Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - int: texture width in pixels
//   - int: texture height in pixels
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() ([]byte, int, int, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("texture is nil")
	}
	if t.Pixels != nil {
		return t.Pixels, t.Width, t.Height, nil
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return nil, 0, 0, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.Width = width
	t.Height = height
	t.Pixels = rgba.Pix

	return rgba.Pix, width, height, nil
}
