package app

import (
	"log"
	"mime"
)

// Minimal container images often ship without /etc/mime.types; the embedded
// stylesheet still has to go out as text/css.
func init() {
	ensureMimeType(".css", "text/css; charset=utf-8")
}

func ensureMimeType(ext, mediaType string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, mediaType); err != nil {
		log.Printf("app: register MIME type for %s: %v", ext, err)
	}
}
