package constants

import (
	"path/filepath"
	"strings"
)

// FileType is the coarse format class the extraction pipeline switches on.
type FileType string

const (
	PDF   FileType = "PDF"
	IMAGE FileType = "IMAGE"
	TXT   FileType = "TXT"
)

// FileTypes enumerates the valid values for persistence-level validation.
var FileTypes = []string{string(PDF), string(IMAGE), string(TXT)}

// AllowedExtensions maps a normalized extension (no dot, lowercase) to the
// file type the pipeline treats it as.
var AllowedExtensions = map[string]FileType{
	"pdf":  PDF,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
	"heic": IMAGE,
	"heif": IMAGE,
	"txt":  TXT,
}

// NormalizeExt lowercases a path's extension and strips the leading dot.
// A bare extension ("pdf", ".pdf") normalizes the same way as a full path.
func NormalizeExt(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		path = ext
	}
	return strings.TrimPrefix(strings.ToLower(path), ".")
}

// MapExtToFormat resolves a path to its file type; ok is false for
// unsupported extensions.
func MapExtToFormat(path string) (FileType, bool) {
	ft, ok := AllowedExtensions[NormalizeExt(path)]
	return ft, ok
}

// IsHEICExt reports whether the path needs HEIC-to-JPEG conversion before OCR.
func IsHEICExt(path string) bool {
	ext := NormalizeExt(path)
	return ext == "heic" || ext == "heif"
}
