package middleware

import (
	"net/url"
	"strings"

	ginzap "github.com/gin-contrib/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "REDACTED"

// sensitiveParams are query parameters that may carry a JWT.
var sensitiveParams = []string{"token"}

type accessLogger struct {
	log *zap.Logger
}

// AccessLogger wraps log for ginzap so tokens in the query string or in the
// request dump written on panic never reach the log.
func AccessLogger(log *zap.Logger) ginzap.ZapLogger {
	return accessLogger{log: log}
}

func (a accessLogger) Info(msg string, fields ...zap.Field) {
	a.log.Info(msg, redactFields(fields)...)
}

func (a accessLogger) Error(msg string, fields ...zap.Field) {
	a.log.Error(msg, redactFields(fields)...)
}

func redactFields(fields []zap.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	copy(out, fields)

	for i, f := range out {
		if f.Type != zapcore.StringType {
			continue
		}
		switch f.Key {
		case "query":
			out[i] = zap.String(f.Key, RedactQuery(f.String))
		case "request":
			out[i] = zap.String(f.Key, redactRequestDump(f.String))
		}
	}

	return out
}

// RedactQuery replaces the values of token-bearing parameters in a raw query.
func RedactQuery(raw string) string {
	if raw == "" {
		return raw
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return redacted
	}

	found := false
	for _, key := range sensitiveParams {
		if values.Has(key) {
			values.Set(key, redacted)
			found = true
		}
	}

	if !found {
		return raw
	}
	return values.Encode()
}

// redactRequestDump masks the Authorization header and the request-line query
// of an httputil.DumpRequest output.
func redactRequestDump(dump string) string {
	lines := strings.Split(dump, "\r\n")

	for i, line := range lines {
		if i == 0 {
			lines[i] = redactRequestLine(line)
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Authorization") {
			lines[i] = name + ": " + redacted
		}
	}

	return strings.Join(lines, "\r\n")
}

func redactRequestLine(line string) string {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return line
	}

	path, query, ok := strings.Cut(parts[1], "?")
	if !ok {
		return line
	}

	parts[1] = path + "?" + RedactQuery(query)
	return strings.Join(parts, " ")
}
