package constants

import (
	"path/filepath"
	"strings"
)

// FileFormat is the classification of an uploaded document.
type FileFormat string

const (
	PDF         FileFormat = "PDF"
	IMAGE       FileFormat = "IMAGE"
	UNSUPPORTED FileFormat = "UNSUPPORTED"
)

// ImageExtensions holds the file extensions accepted as images when the
// declared media type is missing or unhelpful.
var ImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// DetectFormat classifies a document from its filename extension and declared
// media type. PDF wins if either signal says PDF; otherwise an image/ media
// type or a known image extension classifies as IMAGE. Pure function.
func DetectFormat(filename, mediaType string) FileFormat {
	ext := NormalizeExt(filepath.Ext(filename))
	mt := strings.ToLower(strings.TrimSpace(mediaType))

	if ext == "pdf" || strings.Contains(mt, "pdf") {
		return PDF
	}
	if strings.HasPrefix(mt, "image/") {
		return IMAGE
	}
	if _, ok := ImageExtensions[ext]; ok {
		return IMAGE
	}
	return UNSUPPORTED
}
