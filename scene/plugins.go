package scene

// Plugin classes.
const (
	ClassScene      = "scene"
	ClassIntegrator = "integrator"
	ClassShape      = "shape"
	ClassBSDF       = "bsdf"
	ClassTexture    = "texture"
	ClassEmitter    = "emitter"
	ClassSensor     = "sensor"
	ClassFilm       = "film"
	ClassSampler    = "sampler"
	ClassRGB        = "rgb"
	ClassSpectrum   = "spectrum"
	ClassRef        = "ref"
)

var pluginClasses = map[string]string{
	"scene":       ClassScene,
	"volpath":     ClassIntegrator,
	"path":        ClassIntegrator,
	"direct":      ClassIntegrator,
	"shapegroup":  ClassShape,
	"instance":    ClassShape,
	"obj":         ClassShape,
	"serialized":  ClassShape,
	"ply":         ClassShape,
	"diffuse":     ClassBSDF,
	"twosided":    ClassBSDF,
	"normalmap":   ClassBSDF,
	"bumpmap":     ClassBSDF,
	"mask":        ClassBSDF,
	"blendbsdf":   ClassBSDF,
	"bitmap":      ClassTexture,
	"point":       ClassEmitter,
	"envmap":      ClassEmitter,
	"directional": ClassEmitter,
	"constant":    ClassEmitter,
	"perspective": ClassSensor,
	"hdrfilm":     ClassFilm,
	"independent": ClassSampler,
	"rgb":         ClassRGB,
	"spectrum":    ClassSpectrum,
	"ref":         ClassRef,
}

// PluginClass returns the class of a plugin type.
func PluginClass(typeName string) (string, bool) {
	class, found := pluginClasses[typeName]
	return class, found
}

// Sensor keys carry this prefix.
const SensorPrefix = "sensor__"

// CountSensors returns the number of top-level sensors in a scene graph.
func CountSensors(graph *Dict) int {
	return graph.CountPrefix(SensorPrefix)
}
