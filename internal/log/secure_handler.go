package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
var sensitiveKeys = map[string]bool{
	// Customer data columns
	"customer_id":    true,
	"customerid":     true,
	"customer":       true,
	"loyalty_number": true,
	"loyalty":        true,

	// Contact and payment details
	"email":       true,
	"e-mail":      true,
	"phone":       true,
	"card_number": true,
	"card":        true,

	// Credentials
	"authorization": true,
	"password":      true,
	"secret":        true,
	"token":         true,
}

// sensitiveKeywords mask every key that contains them.
var sensitiveKeywords = []string{"password", "passwd", "secret", "token"}

// sensitivePatterns match values that should be sanitized wherever they
// appear in a string.
var sensitivePatterns = []*regexp.Regexp{
	// Payment card numbers: 13 to 19 digits, optionally grouped by spaces or dashes
	regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),

	// E-mail addresses
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),

	// Bearer tokens
	regexp.MustCompile(`(?i)\bbearer\s+\S+`),
}

// MaskValue is the replacement for sanitized values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks personal data in every
// attribute before passing the record on.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a SecureHandler around handler. A nil handler
// wraps the default logger's handler.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on. The message
// itself is left alone; callers put data in attributes.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler whose preset attributes are sanitized.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a SecureHandler for the named group.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if masked, ok := maskValue(a.Value.String()); ok {
			return slog.String(a.Key, masked)
		}
	case slog.KindAny:
		if err, isErr := a.Value.Any().(error); isErr {
			if masked, ok := maskValue(err.Error()); ok {
				return slog.String(a.Key, masked)
			}
		}
	}

	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// maskValue replaces every sensitive match in value. It reports whether
// anything was replaced.
func maskValue(value string) (string, bool) {
	masked := value
	for _, pattern := range sensitivePatterns {
		masked = pattern.ReplaceAllString(masked, MaskValue)
	}
	return masked, masked != value
}

// NewSecureLogger creates a text logger that writes to w. It logs WARN and
// above, or DEBUG and above when verbose is set.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

// New returns NewSecureJSONLogger for format "json" and NewSecureLogger
// otherwise.
func New(w io.Writer, verbose bool, format string) *slog.Logger {
	if format == "json" {
		return NewSecureJSONLogger(w, verbose)
	}
	return NewSecureLogger(w, verbose)
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
