package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/reservekit/pkg/environment"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config is the environment driven logger configuration.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  Format `env:"LOG_FORMAT"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"reservekit"`
}

// Option configures logger creation.
type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the output format. It panics on unknown formats so a bad
// configuration stops the program at startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput sets the destination; nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that add attributes from the
// context of each record. Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	return func(c *config) {
		if name == "" || key == nil {
			return
		}
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			if v := ctx.Value(key); v != nil {
				return slog.Any(name, v), true
			}
			return slog.Attr{}, false
		})
	}
}

// WithEnvironment applies the defaults of env: debug text logs in development,
// info JSON logs elsewhere. service and env are attached to every record.
func WithEnvironment(env environment.Environment, service string) Option {
	return func(c *config) {
		if env == environment.Development {
			c.level = slog.LevelDebug
			c.format = FormatText
		} else {
			c.level = slog.LevelInfo
			c.format = FormatJSON
		}
		if service != "" {
			c.attrs = append(c.attrs, slog.String("service", service))
		}
		c.attrs = append(c.attrs, slog.String("env", env.String()))
	}
}

func WithDevelopment(service string) Option {
	return WithEnvironment(environment.Development, service)
}

func WithProduction(service string) Option {
	return WithEnvironment(environment.Production, service)
}

// FromConfig turns cfg into options. Explicit level and format settings win
// over the environment defaults.
func FromConfig(cfg Config) ([]Option, error) {
	opts := []Option{WithEnvironment(environment.Parse(cfg.Env), cfg.Service)}

	if cfg.Level != "" {
		level, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLevel(level))
	}
	if cfg.Format != "" {
		switch f := Format(strings.ToLower(string(cfg.Format))); f {
		case FormatJSON, FormatText:
			opts = append(opts, WithFormat(f))
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
		}
	}
	return opts, nil
}

// ParseLevel accepts slog level names such as "debug", "INFO" or "warn+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// New creates a slog.Logger. Defaults are JSON output at info level on stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(NewLogHandlerDecorator(handler, cfg.extractors...))
}
