package httpapi

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Nil means silent.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// logger returns the installed logger or a disabled one.
func logger() zerolog.Logger {
	if zlog == nil {
		return zerolog.Nop()
	}
	return *zlog
}

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel is read once at startup.
var defaultLogLevel = func() LogLevel {
	if v, ok := os.LookupEnv("COMPOSEGEN_HTTP_LOG_LEVEL"); ok {
		return parseLevel(v)
	}
	return LevelInfo
}()

// requestLogLevel honors ?log= and X-Log-Level overrides.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}
