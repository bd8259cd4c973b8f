package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposition(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"text/plain; charset=utf-8", DispositionInline},
		{"text/html", DispositionInline},
		{"text/css", DispositionInline},
		{"image/png", DispositionInline},
		{"audio/mpeg", DispositionInline},
		{"video/mp4", DispositionInline},
		{"application/pdf", DispositionInline},
		{"application/json", DispositionInline},
		{"application/xml", DispositionInline},
		{"application/javascript", DispositionInline},
		{"application/zip", DispositionAttachment},
		{"application/octet-stream", DispositionAttachment},
		{"application/vnd.ms-excel", DispositionAttachment},
		{"", DispositionAttachment},
	}

	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			assert.Equal(t, tc.want, Disposition(tc.contentType))
		})
	}
}
