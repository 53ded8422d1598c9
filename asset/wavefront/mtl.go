// Package wavefront discovers the textures that a wavefront object file
// references through its material library.
package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jgain/EcoViz/asset"
)

var (
	// ErrNoMaterialLibrary is returned when an object file has no mtllib directive.
	ErrNoMaterialLibrary = errors.New("wavefront: no mtllib directive")

	// ErrMaterialLibraryNotFound is returned when the referenced library file is missing.
	ErrMaterialLibraryNotFound = errors.New("wavefront: material library not found")

	// ErrNoColorMap is returned when the material library defines no map_Kd entry.
	ErrNoColorMap = errors.New("wavefront: material library has no map_Kd entry")
)

// Textures lists the texture files referenced by a material library.
type Textures struct {
	// Path to the material library.
	Library string

	// Diffuse color map (first map_Kd entry).
	ColorMap string

	// Opacity map (first map_d entry). Optional.
	OpacityMap string
}

// FindTextures scans objPath for its first mtllib directive and returns the
// first map_Kd and map_d entries of that library. Library and texture paths
// are resolved against the directory of the object file.
func FindTextures(objPath string) (*Textures, error) {
	libName, err := findMaterialLibrary(objPath)
	if err != nil {
		return nil, err
	}

	libPath, err := asset.ResolvePath(libName, objPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(libPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMaterialLibraryNotFound, libPath)
		}
		return nil, err
	}
	defer f.Close()

	tex := &Textures{Library: libPath}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) < 2 {
			continue
		}

		var target *string
		switch lineTokens[0] {
		case "map_Kd":
			target = &tex.ColorMap
		case "map_d":
			target = &tex.OpacityMap
		default:
			continue
		}

		if *target != "" {
			continue
		}

		// Texture options (-s, -o, ...) precede the file name.
		*target, err = asset.ResolvePath(lineTokens[len(lineTokens)-1], objPath)
		if err != nil {
			return nil, err
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("wavefront: could not read %s: %w", libPath, err)
	}

	if tex.ColorMap == "" {
		return tex, fmt.Errorf("%w: %s", ErrNoColorMap, libPath)
	}
	return tex, nil
}

func findMaterialLibrary(objPath string) (string, error) {
	f, err := os.Open(objPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || lineTokens[0] != "mtllib" {
			continue
		}
		if len(lineTokens) < 2 {
			return "", fmt.Errorf("wavefront: %s: mtllib without a file name", objPath)
		}
		return strings.Join(lineTokens[1:], " "), nil
	}
	if err = scanner.Err(); err != nil {
		return "", fmt.Errorf("wavefront: could not read %s: %w", objPath, err)
	}

	return "", fmt.Errorf("%w: %s", ErrNoMaterialLibrary, objPath)
}
