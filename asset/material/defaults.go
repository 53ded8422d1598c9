package material

import "github.com/jgain/EcoViz/types"

var (
	// Reflectance substituted when a color map cannot be resolved.
	MissingTextureColor = types.Vec3{0.8, 0.1, 0.1}

	// Reflectance flagging unsupported material types.
	UnsupportedMaterialColor = types.Vec3{0.0, 0.0, 1.0}

	DefaultBumpMapIntensity float32 = 1.0
)
