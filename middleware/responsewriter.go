package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/csrfkit/core/rewrite"
)

// rewriteWriter wraps http.ResponseWriter, feeding HTML body chunks through
// the injector and compensating the length framing for the inserted bytes.
// Non-HTML responses pass through untouched.
type rewriteWriter struct {
	http.ResponseWriter
	injector   *rewrite.Injector
	payloadLen int

	// chunkedOnly drops Content-Length instead of adjusting it.
	chunkedOnly bool

	// beforeHeaders runs once, right before the headers are flushed; the
	// middleware uses it to attach the regenerated token cookies.
	beforeHeaders func(http.Header)

	written bool
	bypass  bool
}

func newRewriteWriter(w http.ResponseWriter, injector *rewrite.Injector, payloadLen int, chunkedOnly bool, beforeHeaders func(http.Header)) *rewriteWriter {
	return &rewriteWriter{
		ResponseWriter: w,
		injector:       injector,
		payloadLen:     payloadLen,
		chunkedOnly:    chunkedOnly,
		beforeHeaders:  beforeHeaders,
	}
}

func (w *rewriteWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.written = true
	w.prepare()
	w.ResponseWriter.WriteHeader(status)
}

func (w *rewriteWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if w.bypass {
		return w.ResponseWriter.Write(b)
	}

	for _, chunk := range w.injector.Rewrite(b) {
		if _, err := w.ResponseWriter.Write(chunk); err != nil {
			return 0, err
		}
	}
	// The injector accounts for every input byte, withheld tail included.
	return len(b), nil
}

// prepare attaches cookies, gates on the declared content type and adjusts
// the length framing, all before the headers go out.
func (w *rewriteWriter) prepare() {
	header := w.Header()

	if w.beforeHeaders != nil {
		w.beforeHeaders(header)
	}

	if !isHTML(header.Get("Content-Type")) {
		w.bypass = true
		return
	}

	if w.chunkedOnly {
		header.Del("Content-Length")
		return
	}
	if cl := header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			header.Set("Content-Length", strconv.FormatInt(n+int64(w.payloadLen), 10))
		} else {
			// Fall back to chunked transfer encoding.
			header.Del("Content-Length")
		}
	}
}

// finish releases any bytes the injector withheld at a chunk boundary. Must
// be called after the handler returns.
func (w *rewriteWriter) finish() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if w.bypass {
		return
	}
	if tail := w.injector.Flush(); len(tail) > 0 {
		_, _ = w.ResponseWriter.Write(tail)
	}
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it.
func (w *rewriteWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap supports http.ResponseController.
func (w *rewriteWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// isHTML reports whether the declared content type is one the rewriter
// handles. An absent content type is treated as non-HTML.
func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "text/xhtml")
}
