// Package logger provides structured logging attribute helpers built on Go's
// standard slog package. Helpers follow the empty Attr pattern for nil
// safety, so call sites never need explicit nil checks.
//
// # Usage
//
//	import "github.com/dmitrymomot/csrfkit/core/logger"
//
//	log.Warn("csrf validation failed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Reason(err.Error()),
//	)
//
//	log.Error("token store unavailable", logger.Error(err))
//
// Attributes with empty or nil values collapse to an empty slog.Attr, which
// slog drops from the output.
package logger
