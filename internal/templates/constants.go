package templates

import (
	"path/filepath"
	"strings"
)

// Extensions accepted by Load, compared case-insensitively.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// IsImageFile reports whether name has an extension Load accepts.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// MaxSimilarDistance is the largest difference hash distance at which Load
// warns that two same-sized templates may be confused.
const MaxSimilarDistance = 2
