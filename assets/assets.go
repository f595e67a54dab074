// Package assets bundles resources into the viewer binary, so the fallback
// model resolves no matter which directory the process is launched from.
package assets

import (
	"embed"
	"strings"
)

//go:embed placeholder.glb
var bundle embed.FS

// Scheme prefixes URLs that resolve inside the embedded bundle instead of
// the filesystem or the network.
const Scheme = "embedded://"

// PlaceholderURL addresses the bundled placeholder model.
const PlaceholderURL = Scheme + "placeholder.glb"

// Open returns the payload of a bundled asset.
//
// Parameters:
//   - rawURL: an embedded:// URL or a bare asset name
//
// Returns:
//   - []byte: the asset payload
//   - error: when no asset with that name is bundled
func Open(rawURL string) ([]byte, error) {
	return bundle.ReadFile(strings.TrimPrefix(rawURL, Scheme))
}
