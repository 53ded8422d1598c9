package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jgain/EcoViz/asset"
	"github.com/jgain/EcoViz/log"
)

var logger = log.New("document reader")

// Read loads the scene document at path, anchors every relative file
// reference at the directory of the document declaring it, merges all
// imported documents, drops unreferenced objects and validates the result.
func Read(path string) (*Document, error) {
	start := time.Now()

	source, err := asset.ResolvePath(path, "")
	if err != nil {
		return nil, err
	}

	doc, err := decode(source)
	if err != nil {
		return nil, err
	}
	doc.Source = source
	doc.Sources = []string{source}

	// Imports are processed breadth-first; merged documents may add further
	// imports which are appended to the queue. Each document is loaded once.
	seen := map[string]bool{source: true}
	for next := 0; next < len(doc.Import); next++ {
		importPath := doc.Import[next]
		if seen[importPath] {
			logger.Infof("skipping repeated import of %q", importPath)
			continue
		}
		seen[importPath] = true

		logger.Infof("importing %q", importPath)
		imported, err := decode(importPath)
		if err != nil {
			return nil, fmt.Errorf("import %q: %w", importPath, err)
		}
		Merge(doc, imported)
		doc.Sources = append(doc.Sources, importPath)
	}

	if pruned := Prune(doc); pruned > 0 {
		logger.Infof("pruned %d unreferenced objects", pruned)
	}

	if err = Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	logger.Noticef("read scene document %q (%d files) in %d ms", source, len(doc.Sources), time.Since(start).Nanoseconds()/1e6)
	return doc, nil
}

// decode parses a single document and resolves its file references.
func decode(path string) (*Document, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	doc := &Document{}
	if err = json.NewDecoder(res).Decode(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}

	if err = ResolvePaths(doc, res.Path()); err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}
	return doc, nil
}

// ResolvePaths rewrites every file-valued field of doc so that relative
// paths are anchored at the directory of source.
func ResolvePaths(doc *Document, source string) error {
	fix := func(path *string) error {
		resolved, err := asset.ResolvePath(*path, source)
		if err != nil {
			return err
		}
		*path = resolved
		return nil
	}

	for _, obj := range doc.Objects {
		for _, def := range obj.Definition {
			if err := fix(&def.File); err != nil {
				return err
			}
			if def.Material == nil {
				continue
			}
			if err := resolveMaterialPaths(def.Material.Material, fix); err != nil {
				return err
			}
		}
	}

	for _, light := range doc.Lights {
		if err := fix(&light.File); err != nil {
			return err
		}
	}

	for i := range doc.Import {
		if err := fix(&doc.Import[i]); err != nil {
			return err
		}
	}
	return nil
}

func resolveMaterialPaths(mat Material, fix func(*string) error) error {
	fixTextured := func(m *TexturedMaterial) error {
		for _, path := range []*string{&m.ColorMap, &m.OpacityMap, &m.NormalMap, &m.BumpMap} {
			if err := fix(path); err != nil {
				return err
			}
		}
		return nil
	}

	switch m := mat.(type) {
	case *TexturedMaterial:
		return fixTextured(m)
	case *BlendedMaterial:
		for _, layer := range m.Layers {
			if layer == nil {
				continue
			}
			if err := fixTextured(&layer.TexturedMaterial); err != nil {
				return err
			}
			if err := fix(&layer.AlphaMap); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merge folds src into dst. List-valued keys are concatenated after the
// entries already in dst; the scene settings of src replace those of dst.
func Merge(dst, src *Document) {
	dst.Objects = append(dst.Objects, src.Objects...)
	dst.ObjectsInstances = append(dst.ObjectsInstances, src.ObjectsInstances...)
	dst.Lights = append(dst.Lights, src.Lights...)
	dst.Cameras = append(dst.Cameras, src.Cameras...)
	dst.Import = append(dst.Import, src.Import...)
	if src.Scene != nil {
		dst.Scene = src.Scene
	}
}

// Prune removes objects that no instance list references and returns the
// number of removed objects.
func Prune(doc *Document) int {
	referenced := make(map[string]bool, len(doc.ObjectsInstances))
	for _, inst := range doc.ObjectsInstances {
		referenced[inst.Ref] = true
	}

	kept := doc.Objects[:0]
	for _, obj := range doc.Objects {
		if referenced[obj.Name] {
			kept = append(kept, obj)
			continue
		}
		logger.Debugf("pruning unreferenced object %q", obj.Name)
	}
	pruned := len(doc.Objects) - len(kept)
	doc.Objects = kept
	return pruned
}
