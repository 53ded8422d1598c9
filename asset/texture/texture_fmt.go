package texture

// Format identifies the encoding of a texture file.
type Format uint32

const (
	Unknown Format = iota
	Png
	Jpeg
	Tiff
	Bmp
	Exr
	Webp
)

func formatFromExtension(ext string) Format {
	switch ext {
	case "png":
		return Png
	case "jpg", "jpeg":
		return Jpeg
	case "tif", "tiff":
		return Tiff
	case "bmp":
		return Bmp
	case "exr":
		return Exr
	case "webp":
		return Webp
	}
	return Unknown
}

func (f Format) String() string {
	switch f {
	case Png:
		return "png"
	case Jpeg:
		return "jpeg"
	case Tiff:
		return "tiff"
	case Bmp:
		return "bmp"
	case Exr:
		return "exr"
	case Webp:
		return "webp"
	}
	return "unknown"
}
