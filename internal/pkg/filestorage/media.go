package filestorage

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ResolveMediaType returns declared when the client sent one, otherwise the
// type sniffed from the content.
func ResolveMediaType(declared string, data []byte) string {
	if strings.TrimSpace(declared) != "" {
		return declared
	}
	return mimetype.Detect(data).String()
}
