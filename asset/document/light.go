package document

import (
	"encoding/json"
	"fmt"

	"github.com/jgain/EcoViz/types"
)

// LightType identifies a light variant.
type LightType string

// Supported light types.
const (
	LightAmbient     LightType = "Ambient"
	LightPoint       LightType = "PointLight"
	LightEnvmap      LightType = "Envmap"
	LightDirectional LightType = "DirectionalLight"
)

// LightInstance is implemented by the per-type instance records.
type LightInstance interface {
	LightType() LightType
}

// AmbientInstance is a constant environment radiance.
type AmbientInstance struct {
	Intensity Color `json:"Intensity"`
}

func (AmbientInstance) LightType() LightType { return LightAmbient }

// PointInstance is an isotropic point light.
type PointInstance struct {
	Position  *types.Vec3 `json:"Position"`
	Intensity Spectrum    `json:"Intensity"`
}

func (PointInstance) LightType() LightType { return LightPoint }

// EnvmapInstance orients an environment map. Intensity scales its radiance.
type EnvmapInstance struct {
	Rotate    types.Vec3 `json:"Rotate"`
	Intensity *float32   `json:"Intensity,omitempty"`
}

func (EnvmapInstance) LightType() LightType { return LightEnvmap }

// Scale returns the radiance scale. A missing or zero intensity selects 1.
func (e EnvmapInstance) Scale() float32 {
	if e.Intensity == nil || *e.Intensity == 0 {
		return 1.0
	}
	return *e.Intensity
}

// DirectionalInstance is a distant light.
type DirectionalInstance struct {
	Direction  *types.Vec3 `json:"Direction"`
	Irradiance Color       `json:"Irradiance"`
}

func (DirectionalInstance) LightType() LightType { return LightDirectional }

// Color is an RGB triplet. A single number decodes to a gray value.
type Color types.Vec3

func (c *Color) UnmarshalJSON(data []byte) error {
	var gray float32
	if err := json.Unmarshal(data, &gray); err == nil {
		*c = Color{gray, gray, gray}
		return nil
	}
	var rgb []float32
	if err := json.Unmarshal(data, &rgb); err != nil || len(rgb) != 3 {
		return fmt.Errorf("color must be a number or a list of 3 numbers")
	}
	*c = Color{rgb[0], rgb[1], rgb[2]}
	return nil
}

// Vec3 returns the color as a vector.
func (c Color) Vec3() types.Vec3 {
	return types.Vec3(c)
}

// Spectrum is either a single uniform value or a list of values.
type Spectrum []float32

func (s *Spectrum) UnmarshalJSON(data []byte) error {
	var scalar float32
	if err := json.Unmarshal(data, &scalar); err == nil {
		*s = Spectrum{scalar}
		return nil
	}
	var list []float32
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("spectrum must be a number or a list of numbers")
	}
	*s = list
	return nil
}

func (s Spectrum) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]float32(s))
}

// Light is a named light source. File is only used by Envmap lights.
type Light struct {
	Name string    `json:"Name"`
	Type LightType `json:"Type"`
	File string    `json:"File,omitempty"`
	Timeline[LightInstance]
}

func (l *Light) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string            `json:"Name"`
		Type      LightType         `json:"Type"`
		File      string            `json:"File"`
		Instances []json.RawMessage `json:"Instances"`
		Frames    []struct {
			Instances []json.RawMessage `json:"Instances"`
		} `json:"Frames"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Name, l.Type, l.File = raw.Name, raw.Type, raw.File
	switch l.Type {
	case LightAmbient, LightPoint, LightEnvmap, LightDirectional:
	default:
		return fmt.Errorf("light %q: unsupported light type %q", l.Name, l.Type)
	}

	var err error
	if raw.Instances != nil {
		if l.Instances, err = l.decodeInstances(raw.Instances); err != nil {
			return err
		}
	}
	if raw.Frames != nil {
		l.Frames = make([]FrameInstances[LightInstance], len(raw.Frames))
		for frameID, frame := range raw.Frames {
			if l.Frames[frameID].Instances, err = l.decodeInstances(frame.Instances); err != nil {
				return fmt.Errorf("%w (frame %d)", err, frameID)
			}
		}
	}
	return nil
}

func (l *Light) decodeInstances(list []json.RawMessage) ([]LightInstance, error) {
	out := make([]LightInstance, 0, len(list))
	for index, data := range list {
		var (
			inst LightInstance
			err  error
		)
		switch l.Type {
		case LightAmbient:
			var v AmbientInstance
			err = json.Unmarshal(data, &v)
			inst = v
		case LightPoint:
			var v PointInstance
			if err = json.Unmarshal(data, &v); err == nil && v.Position == nil {
				err = fmt.Errorf("missing Position")
			}
			inst = v
		case LightEnvmap:
			var v EnvmapInstance
			err = json.Unmarshal(data, &v)
			inst = v
		case LightDirectional:
			var v DirectionalInstance
			if err = json.Unmarshal(data, &v); err == nil && v.Direction == nil {
				err = fmt.Errorf("missing Direction")
			}
			inst = v
		}
		if err != nil {
			return nil, fmt.Errorf("light %q: instance %d: %w", l.Name, index, err)
		}
		out = append(out, inst)
	}
	return out, nil
}
