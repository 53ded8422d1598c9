package writer

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/types"
)

type yamlWriter struct{}

func (w *yamlWriter) Write(out io.Writer, graph *scene.Dict) error {
	node, err := yamlNode(graph)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err = enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNode converts a graph value into a yaml node keeping key order.
func yamlNode(v any) (*yaml.Node, error) {
	node := &yaml.Node{}
	var err error

	switch val := v.(type) {
	case *scene.Dict:
		node.Kind = yaml.MappingNode
		err = val.Each(func(key string, child any) error {
			valueNode, err := yamlNode(child)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, valueNode)
			return nil
		})
	case *scene.Handle:
		return yamlNode(val.Node.Clone().Set("id", val.ID))
	case types.Mat4:
		err = node.Encode(val.Rows())
	case scene.LookAt:
		err = node.Encode(val.Matrix().Rows())
	case scene.Point:
		err = node.Encode([3]float32(val))
	case scene.Vector:
		err = node.Encode([3]float32(val))
	case types.Vec3:
		err = node.Encode([3]float32(val))
	case scene.Param:
		err = node.Encode("$" + val.Name)
	default:
		err = node.Encode(val)
	}

	if err != nil {
		return nil, err
	}
	return node, nil
}
