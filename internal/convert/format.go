package convert

import (
	"path/filepath"
	"strings"
)

// Format is a canonical output image format.
type Format int

const (
	JPEG Format = iota
	PNG
	WEBP
	BMP
	TIFF
	GIF
)

// formatAliases maps every recognized lowercase file extension to its
// canonical format. Aliasing is many-to-one ("jpg" and "jpeg" are the
// same format).
var formatAliases = map[string]Format{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"webp": WEBP,
	"bmp":  BMP,
	"tiff": TIFF,
	"gif":  GIF,
}

var formatNames = map[Format]string{
	JPEG: "JPEG",
	PNG:  "PNG",
	WEBP: "WEBP",
	BMP:  "BMP",
	TIFF: "TIFF",
	GIF:  "GIF",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Extension returns the canonical file extension for the format,
// without a leading dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return "jpg"
	case PNG:
		return "png"
	case WEBP:
		return "webp"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "gif"
	}
}

// QualityBearing reports whether the format's encoder accepts a lossy
// quality parameter. Other formats ignore quality silently.
func (f Format) QualityBearing() bool {
	return f == JPEG || f == WEBP
}

// ParseFormat maps a format name or extension alias, case-insensitively,
// to its canonical format.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// ResolveFormat determines the target format for an output path. An
// explicit format name wins; otherwise the output extension is matched
// against the alias table; unrecognized extensions fall back to JPEG.
func ResolveFormat(explicit, outputPath string) Format {
	if f, ok := ParseFormat(explicit); ok {
		return f
	}
	ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	if f, ok := ParseFormat(ext); ok {
		return f
	}
	return JPEG
}

// MatchesFormat reports whether the path has a supported image
// extension, case-insensitively.
func MatchesFormat(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	_, ok := ParseFormat(ext)
	return ok
}
