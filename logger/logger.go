package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the process-wide logger. It is a no-op until Initialize runs.
	Log = zap.NewNop()
)

// RequestIDKey is the gin/context key holding the request ID.
const RequestIDKey = "request_id"

type ctxKey struct{}

// Initialize sets up the logger for env ("production" or anything else).
func Initialize(env string) {
	InitializeWithWriter(env, nil)
}

// InitializeWithWriter sets up the logger and, when extra is non-nil, tees
// JSON-encoded entries into it (CloudWatch Logs in production).
func InitializeWithWriter(env string, extra io.Writer) {
	l, err := New(env, extra)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	Log = l
}

// New builds a logger without touching the global one.
func New(env string, extra io.Writer) (*zap.Logger, error) {
	config := configFor(env)

	if extra == nil {
		return config.Build()
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(config.EncoderConfig), zapcore.AddSync(os.Stdout), level)

	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	extraCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(extra), level)

	return zap.New(zapcore.NewTee(consoleCore, extraCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func configFor(env string) zap.Config {
	if env == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

// WithContext returns ctx carrying requestID.
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID extracts the request ID from a gin or plain context.
func RequestID(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if v, exists := ginCtx.Get(RequestIDKey); exists {
			if id, ok := v.(string); ok {
				return id
			}
		}
		if ginCtx.Request == nil {
			return "unknown"
		}
		ctx = ginCtx.Request.Context()
	}
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(string); ok {
			return id
		}
	}
	return "unknown"
}

// For returns l annotated with the request ID found in ctx.
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	return l.With(zap.String("request_id", RequestID(ctx)))
}
