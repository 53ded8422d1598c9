package writer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/types"
)

// The scene format version written to the root element.
const xmlSceneVersion = "3.0.0"

// Default declares a scene parameter that can be overridden when the scene
// is loaded, referenced as $name.
type Default struct {
	Name  string
	Value string
}

type xmlWriter struct {
	defaults []Default
}

// NewXMLWriter creates a writer for the renderer's XML scene format.
func NewXMLWriter(defaults ...Default) Writer {
	return &xmlWriter{defaults: defaults}
}

type xmlState struct {
	enc *xml.Encoder

	// Handles declared at the top level and referenced by id.
	hoisted map[*scene.Handle]bool
}

func (w *xmlWriter) Write(out io.Writer, graph *scene.Dict) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}

	st := &xmlState{
		enc:     xml.NewEncoder(out),
		hoisted: make(map[*scene.Handle]bool),
	}
	st.enc.Indent("", "    ")

	var shared []*scene.Handle
	if err := collectShared(graph, st.hoisted, &shared); err != nil {
		return err
	}

	root := xml.StartElement{Name: xml.Name{Local: "scene"}, Attr: []xml.Attr{attr("version", xmlSceneVersion)}}
	if err := st.enc.EncodeToken(root); err != nil {
		return err
	}

	for _, def := range w.defaults {
		if err := st.leaf("default", attr("name", def.Name), attr("value", def.Value)); err != nil {
			return err
		}
	}

	// Shared handles are declared before anything references them.
	for _, h := range shared {
		if err := st.object(h.Node, "", h.ID); err != nil {
			return err
		}
	}

	err := graph.Each(func(key string, val any) error {
		switch v := val.(type) {
		case string:
			if key == scene.TypeKey {
				return nil
			}
		case *scene.Dict:
			return st.object(v, "", key)
		case *scene.Handle:
			if st.hoisted[v] {
				return nil
			}
			return st.object(v.Node, "", key)
		}
		return fmt.Errorf("unsupported top-level entry %q (%T)", key, val)
	})
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}

	if err = st.enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err = st.enc.Flush(); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

// collectShared walks the graph and records, in dependency order, every
// handle that is not a shape. Such handles are declared once at the top
// level and referenced everywhere else.
func collectShared(d *scene.Dict, seen map[*scene.Handle]bool, out *[]*scene.Handle) error {
	return d.Each(func(_ string, val any) error {
		switch v := val.(type) {
		case *scene.Dict:
			return collectShared(v, seen, out)
		case *scene.Handle:
			if seen[v] {
				return nil
			}
			if err := collectShared(v.Node, seen, out); err != nil {
				return err
			}
			if class, _ := scene.PluginClass(v.Type()); class != scene.ClassShape {
				seen[v] = true
				*out = append(*out, v)
			}
		}
		return nil
	})
}

// object emits a plugin node. Nested nodes are tagged with their key in
// the parent; top-level nodes carry an id.
func (st *xmlState) object(d *scene.Dict, name, id string) error {
	class, found := scene.PluginClass(d.Type())
	if !found {
		return fmt.Errorf("unsupported plugin type %q", d.Type())
	}

	switch class {
	case scene.ClassRGB:
		v, _ := d.Get("value")
		c, ok := v.(types.Vec3)
		if !ok {
			return fmt.Errorf("rgb %q: unsupported value %T", name, v)
		}
		return st.leaf("rgb", nameAttrs(name, attr("value", vec3(c)))...)
	case scene.ClassSpectrum:
		v, _ := d.Get("value")
		value, err := spectrumValue(v)
		if err != nil {
			return fmt.Errorf("spectrum %q: %w", name, err)
		}
		return st.leaf("spectrum", nameAttrs(name, attr("value", value))...)
	case scene.ClassRef:
		ref, _ := d.Get("id")
		return st.leaf("ref", nameAttrs(name, attr("id", fmt.Sprint(ref)))...)
	}

	attrs := []xml.Attr{attr("type", d.Type())}
	if id != "" {
		attrs = append(attrs, attr("id", id))
	}
	if name != "" {
		attrs = append(attrs, attr("name", name))
	}
	start := xml.StartElement{Name: xml.Name{Local: class}, Attr: attrs}
	if err := st.enc.EncodeToken(start); err != nil {
		return err
	}

	err := d.Each(func(key string, val any) error {
		if key == scene.TypeKey {
			return nil
		}
		if err := st.value(key, val); err != nil {
			return fmt.Errorf("%s.%s: %w", d.Type(), key, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return st.enc.EncodeToken(start.End())
}

// value emits a named property.
func (st *xmlState) value(name string, val any) error {
	switch v := val.(type) {
	case *scene.Dict:
		return st.object(v, name, "")
	case *scene.Handle:
		if st.hoisted[v] {
			return st.leaf("ref", attr("name", name), attr("id", v.ID))
		}
		return st.object(v.Node, name, v.ID)
	case bool:
		return st.leaf("boolean", attr("name", name), attr("value", strconv.FormatBool(v)))
	case int:
		return st.leaf("integer", attr("name", name), attr("value", strconv.Itoa(v)))
	case float32:
		return st.leaf("float", attr("name", name), attr("value", float(v)))
	case float64:
		return st.leaf("float", attr("name", name), attr("value", strconv.FormatFloat(v, 'g', -1, 64)))
	case string:
		return st.leaf("string", attr("name", name), attr("value", v))
	case scene.Point:
		return st.leaf("point", append([]xml.Attr{attr("name", name)}, xyz(types.Vec3(v))...)...)
	case scene.Vector:
		return st.leaf("vector", append([]xml.Attr{attr("name", name)}, xyz(types.Vec3(v))...)...)
	case scene.Param:
		return st.leaf(v.Class, attr("name", name), attr("value", "$"+v.Name))
	case types.Mat4:
		return st.transform(name, "matrix", attr("value", matrix(v)))
	case scene.LookAt:
		return st.transform(name, "lookat",
			attr("origin", vec3(v.Origin)),
			attr("target", vec3(v.Target)),
			attr("up", vec3(v.Up)),
		)
	}
	return fmt.Errorf("unsupported value type %T", val)
}

func (st *xmlState) transform(name, op string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: "transform"}, Attr: []xml.Attr{attr("name", name)}}
	if err := st.enc.EncodeToken(start); err != nil {
		return err
	}
	if err := st.leaf(op, attrs...); err != nil {
		return err
	}
	return st.enc.EncodeToken(start.End())
}

func (st *xmlState) leaf(tag string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}, Attr: attrs}
	if err := st.enc.EncodeToken(start); err != nil {
		return err
	}
	return st.enc.EncodeToken(start.End())
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func nameAttrs(name string, attrs ...xml.Attr) []xml.Attr {
	if name == "" {
		return attrs
	}
	return append([]xml.Attr{attr("name", name)}, attrs...)
}

func float(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func vec3(v types.Vec3) string {
	return float(v[0]) + ", " + float(v[1]) + ", " + float(v[2])
}

func xyz(v types.Vec3) []xml.Attr {
	return []xml.Attr{attr("x", float(v[0])), attr("y", float(v[1])), attr("z", float(v[2]))}
}

func matrix(m types.Mat4) string {
	elems := m.RowMajor()
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = float(e)
	}
	return strings.Join(out, " ")
}

func spectrumValue(v any) (string, error) {
	switch val := v.(type) {
	case float32:
		return float(val), nil
	case []float32:
		out := make([]string, len(val))
		for i, e := range val {
			out[i] = float(e)
		}
		return strings.Join(out, ", "), nil
	}
	return "", fmt.Errorf("unsupported value %T", v)
}
