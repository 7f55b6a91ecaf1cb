package lsp

import (
	"fmt"
	"runtime/debug"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/log"
)

// logError reports an error to stderr and, if a client connection is
// available, as a window/logMessage notification (fire-and-forget, same
// as the teacher's workspace.LogError: a client unwilling to receive it
// must not block the dispatcher).
func logError(ctx *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Error("%s", message)
	if ctx != nil {
		go ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeError,
			Message: message,
		})
	}
}

func logWarning(ctx *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Warn("%s", message)
	if ctx != nil {
		go ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: message,
		})
	}
}

// method wraps a request handler that returns (result, error).
func method[P, R any](s ServerContext, name string, handler func(*RequestContext, P) (R, error)) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", name, r, debug.Stack())
				logError(ctx, "internal error in %s: %v", name, r)
				var zero R
				result, err = zero, fmt.Errorf("internal error in %s", name)
			}
		}()

		log.Debug("%s started", name)
		req := NewRequestContext(s, ctx)
		result, err = handler(req, params)
		for _, w := range req.Warnings() {
			logWarning(ctx, "%s warning: %v", name, w)
		}
		if err != nil {
			logError(ctx, "%s: %v", name, err)
			return result, fmt.Errorf("%s: %w", name, err)
		}
		return result, nil
	}
}

// notify wraps a notification handler that returns only an error.
func notify[P any](s ServerContext, name string, handler func(*RequestContext, P) error) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", name, r, debug.Stack())
				logError(ctx, "internal error in %s: %v", name, r)
				err = fmt.Errorf("internal error in %s", name)
			}
		}()

		log.Debug("%s started", name)
		req := NewRequestContext(s, ctx)
		err = handler(req, params)
		for _, w := range req.Warnings() {
			logWarning(ctx, "%s warning: %v", name, w)
		}
		if err != nil {
			logError(ctx, "%s: %v", name, err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// noParam wraps a handler that takes no params, such as Shutdown.
func noParam(s ServerContext, name string, handler func(*RequestContext) error) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in %s: %v\n%s", name, r, debug.Stack())
				logError(ctx, "internal error in %s: %v", name, r)
				err = fmt.Errorf("internal error in %s", name)
			}
		}()

		log.Debug("%s started", name)
		req := NewRequestContext(s, ctx)
		err = handler(req)
		if err != nil {
			logError(ctx, "%s: %v", name, err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
