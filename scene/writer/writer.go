// Package writer serializes scene graphs.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgain/EcoViz/scene"
)

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write a scene graph to out.
	Write(out io.Writer, graph *scene.Dict) error
}

// Formats lists the supported output formats.
var Formats = []string{"xml", "json", "yaml"}

// ForFormat returns the writer for a format name.
func ForFormat(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "xml":
		return NewXMLWriter(), nil
	case "json":
		return &jsonWriter{}, nil
	case "yaml", "yml":
		return &yamlWriter{}, nil
	}
	return nil, fmt.Errorf("writer: unsupported format %q", format)
}

// WriteScene writes graph to filename selecting the format from the file extension.
func WriteScene(graph *scene.Dict, filename string) error {
	w, err := ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return err
	}
	return WriteSceneWith(w, graph, filename)
}

// WriteSceneWith writes graph to filename using w.
func WriteSceneWith(w Writer, graph *scene.Dict, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = w.Write(f, graph); err != nil {
		f.Close()
		return fmt.Errorf("writer: %s: %w", filename, err)
	}
	return f.Close()
}
