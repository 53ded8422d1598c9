package document

import (
	"encoding/json"
	"fmt"

	"github.com/jgain/EcoViz/types"
)

// MaterialKind identifies a material variant.
type MaterialKind string

// Supported material kinds.
const (
	KindTextured     MaterialKind = "Textured"
	KindBlended      MaterialKind = "Blended"
	KindDiffuseColor MaterialKind = "DiffuseColor"
)

// Material is implemented by all material variants.
type Material interface {
	Kind() MaterialKind
}

// TexturedMaterial is a two-sided diffuse surface driven by a color map
// with an optional normal or bump map and an optional opacity mask.
type TexturedMaterial struct {
	ColorMap         string   `json:"ColorMap"`
	OpacityMap       string   `json:"OpacityMap,omitempty"`
	NormalMap        string   `json:"NormalMap,omitempty"`
	BumpMap          string   `json:"BumpMap,omitempty"`
	BumpMapIntensity *float32 `json:"BumpMapIntensity,omitempty"`
	UVScale          *float32 `json:"UVScale,omitempty"`
}

func (m *TexturedMaterial) Kind() MaterialKind { return KindTextured }

// BlendLayer is a textured layer mixed over the layers below it using an alpha map.
type BlendLayer struct {
	TexturedMaterial
	AlphaMap string `json:"AlphaMap,omitempty"`
}

// BlendedMaterial stacks textured layers. Every layer after the first
// carries an alpha map.
type BlendedMaterial struct {
	Layers []*BlendLayer `json:"Layers"`
}

func (m *BlendedMaterial) Kind() MaterialKind { return KindBlended }

// DiffuseColorMaterial is a two-sided diffuse surface with a constant color.
type DiffuseColorMaterial struct {
	Color *types.Vec3 `json:"Color"`
}

func (m *DiffuseColorMaterial) Kind() MaterialKind { return KindDiffuseColor }

// UnknownMaterial records an unsupported material type. It renders with a
// placeholder color instead of failing the load.
type UnknownMaterial struct {
	Type string
}

func (m *UnknownMaterial) Kind() MaterialKind { return MaterialKind(m.Type) }

// MaterialSpec wraps a material variant for JSON decoding.
type MaterialSpec struct {
	Material
}

func (s *MaterialSpec) UnmarshalJSON(data []byte) error {
	var header struct {
		Type string `json:"Type"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	var mat Material
	switch MaterialKind(header.Type) {
	case KindTextured:
		mat = &TexturedMaterial{}
	case KindBlended:
		mat = &BlendedMaterial{}
	case KindDiffuseColor:
		mat = &DiffuseColorMaterial{}
	default:
		s.Material = &UnknownMaterial{Type: header.Type}
		return nil
	}

	if err := json.Unmarshal(data, mat); err != nil {
		return fmt.Errorf("material %q: %w", header.Type, err)
	}
	s.Material = mat
	return nil
}

func (s *MaterialSpec) MarshalJSON() ([]byte, error) {
	if s.Material == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(s.Material)
	if err != nil {
		return nil, err
	}
	// Splice the Type tag back into the encoded object.
	tag, _ := json.Marshal(string(s.Material.Kind()))
	if len(data) == 2 {
		return []byte(`{"Type":` + string(tag) + `}`), nil
	}
	return append([]byte(`{"Type":`+string(tag)+`,`), data[1:]...), nil
}

// validateMaterial checks the material for contract violations.
func validateMaterial(mat Material) error {
	switch m := mat.(type) {
	case *TexturedMaterial:
		return validateTextured(m)
	case *BlendedMaterial:
		if len(m.Layers) == 0 {
			return fmt.Errorf("Layers: at least one layer is required")
		}
		for index, layer := range m.Layers {
			if layer == nil {
				return fmt.Errorf("Layers[%d]: empty layer", index)
			}
			if err := validateTextured(&layer.TexturedMaterial); err != nil {
				return fmt.Errorf("Layers[%d]: %w", index, err)
			}
			if index > 0 && layer.AlphaMap == "" {
				return fmt.Errorf("Layers[%d]: missing AlphaMap", index)
			}
		}
	case *DiffuseColorMaterial:
		if m.Color == nil {
			return fmt.Errorf("missing Color")
		}
	}
	return nil
}

func validateTextured(m *TexturedMaterial) error {
	if m.NormalMap != "" && m.BumpMap != "" {
		return fmt.Errorf("NormalMap and BumpMap are mutually exclusive")
	}
	if m.UVScale != nil && *m.UVScale <= 0 {
		return fmt.Errorf("UVScale must be positive; got %g", *m.UVScale)
	}
	return nil
}
