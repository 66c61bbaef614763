package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sensorprep/internal/config"
	"sensorprep/internal/errors"
	"sensorprep/internal/infrastructure"
	"sensorprep/internal/validation"
	"sensorprep/pkg/contracts"
)

// shutdownTimeout bounds the telemetry flush at exit
const shutdownTimeout = 5 * time.Second

// Pipeline is the body of one tool run
type Pipeline func(ctx context.Context, a *Application) error

// Application holds everything a tool run needs
type Application struct {
	Name          string
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Validator     *validation.FileValidator
}

// NewApplication loads configuration and initializes logging and telemetry
// for the named tool
func NewApplication(tool, configPath string, opts ...config.Option) (*Application, error) {
	cfg, err := config.Load(configPath, opts...)
	if err != nil {
		return nil, err
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return nil, errors.NewConfigError("failed to resolve output paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, errors.NewIOError("failed to create output directory", err).
			WithContext("output_dir", paths.OutputDir)
	}

	cfg.Logging.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, errors.NewConfigError("failed to initialize logger", err)
	}
	logger = infrastructure.WithComponent(logger, tool)

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    environment(),
		Tool:           tool,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		TraceFile:      paths.TraceFile,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		MetricsFile:    paths.MetricsFile,
	}, logger)
	if err != nil {
		return nil, errors.NewConfigError("failed to initialize telemetry", err)
	}

	return &Application{
		Name:          tool,
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Validator:     validation.NewFileValidator(logger),
	}, nil
}

// Run executes pipeline under a fresh run ID and a root span. Errors are
// logged with their kind and context before being returned.
func (a *Application) Run(ctx context.Context, pipeline Pipeline) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	a.Logger.InfoContext(ctx, "Starting "+a.Name,
		slog.String("version", contracts.GetVersionString()),
		slog.String("output_dir", a.Paths.OutputDir))

	ctx, done := a.OTelProviders.StartStage(ctx, a.Name)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"run_id": infrastructure.GetTraceID(ctx),
		"tool":   a.Name,
	})
	if id := infrastructure.TraceIDFromContext(ctx); id != "" {
		a.Logger.DebugContext(ctx, "Tracing run", slog.String("otel_trace_id", id))
	}
	err := pipeline(ctx, a)
	done(err)

	if err != nil {
		attrs := append(ErrorAttrs(err), slog.Duration("duration", time.Since(start)))
		if errors.IsFatal(err) {
			a.Logger.ErrorContext(ctx, a.Name+" failed", attrs...)
		} else {
			a.Logger.WarnContext(ctx, a.Name+" finished with recoverable errors", attrs...)
		}
		return err
	}

	a.Logger.InfoContext(ctx, a.Name+" completed",
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Stage runs fn as a named child stage of the current run
func (a *Application) Stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, done := a.OTelProviders.StartStage(ctx, name)
	err := fn(ctx)
	done(err)
	return err
}

// Count adds n to counter, tagged with the tool name
func (a *Application) Count(ctx context.Context, counter metric.Int64Counter, n int) {
	if n <= 0 {
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(attribute.String("tool", a.Name)))
}

// Shutdown flushes telemetry and closes the log file
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.OTelProviders.Shutdown(ctx)
	infrastructure.CloseLogFile()
	return err
}

// Main runs a tool from start to exit and returns the process exit code.
// A panicking pipeline is logged with its stack and exits 1; telemetry and
// the log file are flushed on every path once the application is built.
func Main(tool, configPath string, opts []config.Option, pipeline Pipeline) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(tool, r)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := NewApplication(tool, configPath, opts...)
	if err != nil {
		slog.Error("Failed to initialize "+tool, ErrorAttrs(err)...)
		return errors.ExitCode(err)
	}
	defer func() {
		// logged before Shutdown closes the log file
		if r := recover(); r != nil {
			logPanic(tool, r)
			code = 1
		}
		if serr := a.Shutdown(); serr != nil {
			// the logger may already be detached from its file
			slog.Warn("Telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	return errors.ExitCode(a.Run(ctx, pipeline))
}

func logPanic(tool string, r any) {
	slog.Error(tool+" panicked",
		slog.Any("panic", r),
		slog.String("stack", string(debug.Stack())))
}

// ErrorAttrs flattens err into log attributes
func ErrorAttrs(err error) []any {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.LogAttrs()
	}
	if stderrors.Is(err, context.Canceled) {
		return []any{slog.String("error_type", "CANCELED"), slog.String("error", err.Error())}
	}
	return []any{slog.String("error", fmt.Sprint(err))}
}

func environment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}
