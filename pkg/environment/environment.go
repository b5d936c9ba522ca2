package environment

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Environment is the deployment stage the client runs against.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes short aliases ("dev", "stage", "prod") and casing.
// Anything unrecognised is treated as development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

type contextKey struct{}

// WithContext stores env in ctx.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or "".
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx) == Development
}

// LoggerExtractor adds an "env" attribute to records logged with a context
// carrying an environment. It matches logger.ContextExtractor.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env := FromContext(ctx); env != "" {
			return slog.String("env", string(env)), true
		}
		return slog.Attr{}, false
	}
}

// Middleware attaches env to every request context.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}
