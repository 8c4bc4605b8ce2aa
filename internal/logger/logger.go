package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	appCtx "github.com/baechuer/account-service/internal/pkg/context"
)

var Logger zerolog.Logger

// FileConfig is the optional YAML document pointed to by LOG_CONFIG.
// Environment variables override the file.
type FileConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Fields map[string]string `yaml:"fields"`
}

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	var fc FileConfig
	if path := strings.TrimSpace(os.Getenv("LOG_CONFIG")); path != "" {
		loaded, err := LoadFileConfig(path)
		if err != nil {
			// logger not ready yet; report on the target writer and continue with defaults
			fmt.Fprintf(w, "logger: ignoring LOG_CONFIG: %v\n", err)
		} else {
			fc = loaded
		}
	}

	logLevel := firstNonEmpty(os.Getenv("LOG_LEVEL"), fc.Level, "info")
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := firstNonEmpty(os.Getenv("LOG_FORMAT"), fc.Format, "console") // "json" or "console"

	var base zerolog.Logger
	if format == "json" {
		base = zerolog.New(w)
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	}

	lc := base.With().Timestamp()
	for k, v := range fc.Fields {
		lc = lc.Str(k, v)
	}
	Logger = lc.Logger().Level(level)

	// set global
	zlog.Logger = Logger
}

// LoadFileConfig decodes a YAML logging config file.
func LoadFileConfig(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, err
	}
	defer f.Close()

	var fc FileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

// WithCtx returns the logger enriched with the request id carried by ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	if reqID := appCtx.GetRequestID(ctx); reqID != "" {
		l := Logger.With().Str("request_id", reqID).Logger()
		return &l
	}
	return &Logger
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
