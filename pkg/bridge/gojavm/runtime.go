// Package gojavm evaluates bridge request scripts with the goja JavaScript
// interpreter.
package gojavm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dop251/goja"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds a script run when the context has no deadline.
	DefaultTimeout = 2 * time.Second
	// MaxScriptSize is the largest accepted script in bytes.
	MaxScriptSize = 64 * 1024

	scriptScheme = "javascript:"
)

var (
	// ErrTimeout is returned when a script is interrupted by its deadline or
	// context cancellation.
	ErrTimeout = errors.New("gojavm: execution interrupted")
	// ErrScriptTooLarge is returned for scripts over MaxScriptSize.
	ErrScriptTooLarge = errors.New("gojavm: script too large")
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runtime) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLogger receives console.log output at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runtime runs each script in a fresh VM. It satisfies bridge.Runtime.
type Runtime struct {
	timeout time.Duration
	logger  logrus.FieldLogger
}

// New constructs a runtime.
func New(options ...Option) *Runtime {
	r := &Runtime{timeout: DefaultTimeout}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		r.logger = discard
	}
	return r
}

// Evaluate runs script, optionally prefixed with "javascript:", and returns
// its completion value: strings as-is, undefined and null as "", anything
// else encoded as JSON.
func (r *Runtime) Evaluate(ctx context.Context, script string) (string, error) {
	if len(script) > MaxScriptSize {
		return "", fmt.Errorf("%w: %d bytes", ErrScriptTooLarge, len(script))
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	vm := goja.New()
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			vm.Interrupt("execution timeout")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	console := vm.NewObject()
	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		r.logger.WithField("source", "console").Debug(fmt.Sprint(args...))
		return goja.Undefined()
	}); err != nil {
		return "", fmt.Errorf("gojavm: console: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return "", fmt.Errorf("gojavm: console: %w", err)
	}

	src := strings.TrimPrefix(strings.TrimSpace(script), scriptScheme)
	value, err := vm.RunString(src)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, interrupted.Value())
		}
		return "", fmt.Errorf("gojavm: script error: %w", err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", nil
	}

	exported := value.Export()
	if s, ok := exported.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(exported)
	if err != nil {
		return "", fmt.Errorf("gojavm: encode result: %w", err)
	}
	return string(encoded), nil
}
