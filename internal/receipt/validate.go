package receipt

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize caps one uploaded receipt at 10 MB.
const MaxFileSize = 10 << 20

// supportedExtensions are the upload filename extensions accepted for
// processing.
var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".heic", ".heif", ".pdf"}

// supportedMIMETypes are the sniffed content types accepted for processing.
var supportedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
	"image/heif",
	"application/pdf",
}

// ValidFilename reports whether the filename carries a supported extension.
func ValidFilename(filename string) bool {
	if filename == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// DetectContentType sniffs the content type from the file bytes, ignoring
// whatever type the upload declared, and reports whether it is supported.
func DetectContentType(data []byte) (string, bool) {
	mtype := mimetype.Detect(data)
	for _, supported := range supportedMIMETypes {
		if mtype.Is(supported) {
			return supported, true
		}
	}
	return mtype.String(), false
}
