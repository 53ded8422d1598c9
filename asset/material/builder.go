package material

import (
	"fmt"
	"time"

	"github.com/jgain/EcoViz/asset/document"
	"github.com/jgain/EcoViz/asset/texture"
	"github.com/jgain/EcoViz/log"
	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/types"
)

// Builder converts material descriptions into surface node graphs.
type Builder struct {
	logger log.Logger
	cache  *TextureCache
	loader scene.Loader

	// Number of surface graphs constructed.
	built int
}

// NewBuilder creates a builder that loads textured surfaces through loader
// and shares them via cache.
func NewBuilder(cache *TextureCache, loader scene.Loader) *Builder {
	return &Builder{
		logger: log.New("material builder"),
		cache:  cache,
		loader: loader,
	}
}

// Built returns the number of surface graphs constructed so far.
func (b *Builder) Built() int {
	return b.built
}

// Cache returns the texture cache used by this builder.
func (b *Builder) Cache() *TextureCache {
	return b.cache
}

// Build returns the surface for mat. Textured materials are loaded once per
// color map and returned as shared handles; other kinds are returned as
// inline nodes.
func (b *Builder) Build(mat document.Material) (any, error) {
	switch m := mat.(type) {
	case *document.TexturedMaterial:
		return b.cachedTextured(m)
	case *document.BlendedMaterial:
		return b.Blended(m), nil
	case *document.DiffuseColorMaterial:
		return b.Diffuse(scene.RGB(*m.Color)), nil
	default:
		b.logger.Warningf("unsupported material type %q; using placeholder color", mat.Kind())
		return b.Diffuse(scene.RGB(UnsupportedMaterialColor)), nil
	}
}

func (b *Builder) cachedTextured(m *document.TexturedMaterial) (*scene.Handle, error) {
	if h, found := b.cache.Lookup(m.ColorMap); found {
		b.logger.Debugf("found in cache: re-using already loaded texture %q", m.ColorMap)
		return h, nil
	}

	start := time.Now()
	node := b.Textured(m)
	h, err := b.loader.LoadObject(node)
	if err != nil {
		return nil, fmt.Errorf("material: could not load surface for %q: %w", m.ColorMap, err)
	}
	b.cache.Store(m.ColorMap, h)
	b.logger.Infof("new texture %q loaded in %d ms", m.ColorMap, time.Since(start).Nanoseconds()/1e6)
	return h, nil
}

// Textured builds the surface graph of a textured material: a two-sided
// diffuse base optionally wrapped by normal or bump mapping and then by an
// opacity mask. A zero bump intensity selects the default.
func (b *Builder) Textured(m *document.TexturedMaterial) *scene.Dict {
	b.built++

	toUV := types.Ident4()
	if m.UVScale != nil {
		scale := types.Vec3{*m.UVScale, *m.UVScale, 1}
		toUV = types.Compose(nil, nil, &scale)
	}

	// A missing color map yields the bare fallback surface without wrappers.
	if !b.textureAvailable(m.ColorMap) {
		return b.Diffuse(scene.RGB(MissingTextureColor))
	}

	base := b.Diffuse(bitmap(m.ColorMap, toUV, false))
	node := base
	switch {
	case m.NormalMap != "":
		node = scene.New(BxdfNormalMap.String()).
			Set("normalmap", bitmap(m.NormalMap, toUV, true)).
			Set("bsdf", base)
	case m.BumpMap != "":
		intensity := DefaultBumpMapIntensity
		if m.BumpMapIntensity != nil && *m.BumpMapIntensity != 0 {
			intensity = *m.BumpMapIntensity
		}
		node = scene.New(BxdfBumpMap.String()).
			Set("arbitrary", bitmap(m.BumpMap, toUV, true)).
			Set("bsdf", base).
			Set("scale", intensity)
	}

	if m.OpacityMap != "" {
		node = scene.New(BxdfMask.String()).
			Set("material", node).
			Set("opacity", bitmap(m.OpacityMap, toUV, false))
	}
	return node
}

// Blended folds the layers left to right: every layer after the first is
// blended over the accumulated surface using its alpha map as weight.
func (b *Builder) Blended(m *document.BlendedMaterial) *scene.Dict {
	acc := b.Textured(&m.Layers[0].TexturedMaterial)
	for _, layer := range m.Layers[1:] {
		acc = scene.New(BxdfBlend.String()).
			Set("weight", scene.New(bitmapType).Set("filename", layer.AlphaMap)).
			Set("bsdf_0", acc).
			Set("bsdf_1", b.Textured(&layer.TexturedMaterial))
	}
	return acc
}

// Diffuse builds a two-sided diffuse surface with the given reflectance.
func (b *Builder) Diffuse(reflectance *scene.Dict) *scene.Dict {
	return scene.New(BxdfTwoSided.String()).
		Set("bsdf", scene.New(BxdfDiffuse.String()).Set("reflectance", reflectance))
}

// textureAvailable reports whether a color map can be used, logging a
// warning for the fallback cases.
func (b *Builder) textureAvailable(path string) bool {
	if path == "" {
		b.logger.Warning("material has no color map; using fallback color")
		return false
	}

	tex, err := texture.Probe(path)
	if err != nil {
		b.logger.Warningf("skipping missing texture %q: %v", path, err)
		return false
	}
	if tex.Format == texture.Unknown {
		b.logger.Warningf("could not detect the image format of %q", path)
	}
	return true
}

func bitmap(path string, toUV types.Mat4, raw bool) *scene.Dict {
	node := scene.New(bitmapType).Set("filename", path)
	if raw {
		node.Set("raw", true)
	}
	return node.Set("to_uv", toUV)
}
