package writer

import (
	"encoding/json"
	"io"

	"github.com/jgain/EcoViz/scene"
)

type jsonWriter struct{}

func (w *jsonWriter) Write(out io.Writer, graph *scene.Dict) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}
