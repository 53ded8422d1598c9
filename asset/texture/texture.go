package texture

import (
	"fmt"
	"io"

	"github.com/h2non/filetype"

	"github.com/jgain/EcoViz/asset"
)

// The number of header bytes inspected when sniffing an image format.
const headerLen = 262

// A texture file referenced by a material.
type Texture struct {
	Path   string
	Format Format
}

// Probe opens the texture at path and detects its image format from the
// file header. Missing files return the underlying read error. Files that
// exist but are not recognized are returned with the Unknown format.
func Probe(path string) (*Texture, error) {
	if path == "" {
		return nil, fmt.Errorf("texture: empty path")
	}
	if asset.IsRemotePath(path) {
		return nil, fmt.Errorf("texture: remote textures are not supported: %s", path)
	}

	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	head := make([]byte, headerLen)
	n, err := io.ReadFull(res, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("texture: could not read %s: %w", path, err)
	}
	head = head[:n]

	tex := &Texture{Path: res.Path(), Format: Unknown}
	if !filetype.IsImage(head) {
		return tex, nil
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return tex, nil
	}
	tex.Format = formatFromExtension(kind.Extension)
	return tex, nil
}
