package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const defaultHandlerTimeout = 30 * time.Second

// FieldsMessage is implemented by messages that describe themselves in logs,
// for example with the target project and acting user.
type FieldsMessage interface {
	LogFields() map[string]any
}

type loggerKey struct{}

// Logger returns the scoped logger of the command running under ctx. Outside
// a handler it returns a no-op logger.
func Logger(ctx context.Context) interfaces.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(interfaces.Logger); ok && logger != nil {
			return logger
		}
	}
	return logging.NoOp()
}

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler validates an l10n command, runs it under a timeout and maps its
// failures to go-errors categories and text codes.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
}

// NewHandler wraps fn as a go-command Commander.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg and runs the wrapped function. The function can log
// through Logger(ctx), which carries the command and message fields.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger := logging.WithFields(h.logger, h.fields(msg))
	ctx = context.WithValue(ctx, loggerKey{}, logger)
	logger.Debug("command.execute.start")

	if err := h.exec(ctx, msg); err != nil {
		classified := classifyError(err)
		logger.Error("command.execute.failed", failureFields(classified)...)
		return classified
	}

	if err := ctx.Err(); err != nil {
		logger.Error("command.execute.context_error", "error", err)
		return wrapContextError(err)
	}

	logger.Info("command.execute.success")
	return nil
}

func (h *Handler[T]) fields(msg T) map[string]any {
	fields := map[string]any{
		"command":   command.GetMessageType(msg),
		"operation": h.operation,
	}
	if described, ok := any(msg).(FieldsMessage); ok {
		for key, value := range described.LogFields() {
			fields[key] = value
		}
	}
	return fields
}

// failureFields names the text code and, for spreadsheet rows, the failing
// line and column.
func failureFields(err error) []any {
	fields := []any{"error", err, "text_code", TextCode(err)}
	var rowErr *csvtransfer.RowError
	if errors.As(err, &rowErr) {
		fields = append(fields, "line", rowErr.Line, "column", rowErr.Column)
	}
	return fields
}

// WithTimeout overrides the default execution timeout. Zero disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout < 0 {
			timeout = 0
		}
		h.timeout = timeout
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
