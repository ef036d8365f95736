package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"

	"pirsvc/pkg/telemetry"
)

// negotiateResponse decides per response whether to stream the body
// gzip-compressed, based purely on the client's advertised capability.
// Compressed responses are chunked; no Content-Length is set, so the
// negotiator never buffers the body.
func (c *Controller) negotiateResponse(w http.ResponseWriter, r *http.Request) (io.Writer, func() error) {
	if !c.CompressEnabled || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
		return w, func() error { return nil }
	}
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")

	level := c.CompressLevel
	if level == 0 {
		level = gzip.DefaultCompression
	}
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		// only reachable with an out-of-range configured level
		zw = gzip.NewWriter(w)
	}
	telemetry.CompressedResponses.Inc()
	return zw, zw.Close
}

// acceptsGzip reports whether an Accept-Encoding value names gzip with a
// non-zero quality.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		enc = strings.ToLower(strings.TrimSpace(enc))
		if enc != "gzip" && enc != "*" {
			continue
		}
		q := strings.ToLower(strings.ReplaceAll(params, " ", ""))
		if strings.HasPrefix(q, "q=0") && !strings.HasPrefix(q, "q=0.") {
			continue
		}
		if q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		return true
	}
	return false
}
