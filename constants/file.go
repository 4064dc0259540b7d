package constants

import "strings"

// SourceFormat is the kind of document handed to the renderer.
type SourceFormat string

const (
	PDF     SourceFormat = "PDF"
	IMAGE   SourceFormat = "IMAGE"
	HEIC    SourceFormat = "HEIC"
	UNKNOWN SourceFormat = "UNKNOWN"
)

// AllowedExtensions holds the source extensions the scanner accepts.
var AllowedExtensions = map[string]SourceFormat{
	"pdf":  PDF,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
	"heic": HEIC,
	"heif": HEIC,
}

const (
	// OutputFileName is the single file produced inside the output directory.
	OutputFileName = "contacts.vcf"
	// TempImagePattern names the per-page image kept next to the output while a page is in flight.
	TempImagePattern = "card_%d.png"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension (with or without dot) to a SourceFormat.
func MapExtToFormat(ext string) SourceFormat {
	if f, ok := AllowedExtensions[NormalizeExt(ext)]; ok {
		return f
	}
	return UNKNOWN
}
