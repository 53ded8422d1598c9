package material

// BxdfType represents the surface nodes emitted by the material builder.
type BxdfType int

const (
	bxdfInvalid BxdfType = iota
	BxdfDiffuse
	BxdfTwoSided
	BxdfNormalMap
	BxdfBumpMap
	BxdfMask
	BxdfBlend
)

func (t BxdfType) String() string {
	switch t {
	case BxdfDiffuse:
		return "diffuse"
	case BxdfTwoSided:
		return "twosided"
	case BxdfNormalMap:
		return "normalmap"
	case BxdfBumpMap:
		return "bumpmap"
	case BxdfMask:
		return "mask"
	case BxdfBlend:
		return "blendbsdf"
	}

	return "invalid"
}

// The texture node type used for all image lookups.
const bitmapType = "bitmap"
