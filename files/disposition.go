package files

import "strings"

const (
	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
)

// Content-type families a browser can be expected to render safely.
// Everything else gets served as a download.
var inlinePrefixes = []string{
	"text/",
	"image/",
	"audio/",
	"video/",
}

var inlineTypes = map[string]struct{}{
	"application/pdf":        {},
	"application/json":       {},
	"application/xml":        {},
	"application/javascript": {},
}

// Disposition decides whether a public download should render in the
// browser or be saved to disk, based on the content type sniffed at
// upload time.
func Disposition(contentType string) string {
	// Strip parameters like "; charset=utf-8"
	ct := contentType
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	for _, prefix := range inlinePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return DispositionInline
		}
	}

	if _, ok := inlineTypes[ct]; ok {
		return DispositionInline
	}

	return DispositionAttachment
}
