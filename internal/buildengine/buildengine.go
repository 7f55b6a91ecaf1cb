// Package buildengine invokes the external typesetter for a workspace
// root document and streams its output back line by line (§4.8). Grounded
// on internal/diagnostics.RunLinter's subprocess-wrapper shape (stdin/
// stdout pipes around exec.CommandContext, line-oriented stdout
// scanning), generalized from "scan each line for a diagnostic" to
// "forward each line to a log-line sink" and from single-shot execution
// to per-root mutual exclusion.
package buildengine

import (
	"bufio"
	"context"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/reqqueue"
	"github.com/texls/texls/internal/uri"
)

// Status is a build or forward-search outcome (§4.8: "Result status is
// one of: SUCCESS, ERROR, FAILURE, CANCELLED").
type Status string

const (
	StatusSuccess      Status = "SUCCESS"
	StatusError        Status = "ERROR"
	StatusFailure      Status = "FAILURE"
	StatusCancelled    Status = "CANCELLED"
	StatusUnconfigured Status = "UNCONFIGURED"
)

// Config is the subset of §6's build.* configuration the engine needs.
type Config struct {
	Executable         string
	Args               []string
	ForwardSearchAfter bool
}

// LogLineFunc receives one line of the typesetter's output as it is
// produced, for forwarding as a window/logMessage notification.
type LogLineFunc func(line string)

// Engine serializes builds per root-document identity: concurrent build
// requests for the same root block on the first rather than running
// concurrently or cancelling it (§4.8).
type Engine struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	cursor map[string]Position // last-known cursor position per document Uri, for forward-search
}

// Position is a zero-based line/column, matching an LSP Position closely
// enough for forward-search's "jump to the corresponding output page".
type Position struct {
	Line      int
	Character int
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{
		locks:  make(map[string]*sync.Mutex),
		cursor: make(map[string]Position),
	}
}

// NoteCursor records the last-known cursor position for u, so a
// subsequent forward-search after a build can locate the corresponding
// source position (§4.8).
func (e *Engine) NoteCursor(u uri.Uri, pos Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor[u.String()] = pos
}

// LastCursor returns the last-known cursor position for u, or false if
// none is recorded.
func (e *Engine) LastCursor(u uri.Uri) (Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos, ok := e.cursor[u.String()]
	return pos, ok
}

func (e *Engine) lockFor(root string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[root]
	if !ok {
		l = &sync.Mutex{}
		e.locks[root] = l
	}
	return l
}

// Build spawns cfg.Executable against root's path, streaming each line of
// combined stdout/stderr to onLine as it arrives and honoring token's
// cancellation (§5: "a cancellation token interrupts the spawned
// process"). At most one build for a given root runs at a time; a second
// caller for the same root blocks until the first completes, then runs
// its own build rather than reusing the first's result (§4.8).
func (e *Engine) Build(ctx context.Context, root uri.Uri, cfg Config, onLine LogLineFunc, token reqqueue.CancellationToken) Status {
	if cfg.Executable == "" {
		return StatusFailure
	}

	lock := e.lockFor(root.String())
	lock.Lock()
	defer lock.Unlock()

	if token.IsCancelled() {
		return StatusCancelled
	}

	path := root.Path()
	if path == "" {
		return StatusError
	}

	cmd := exec.CommandContext(ctx, cfg.Executable, append(cfg.Args, path)...)
	cmd.Dir = filepath.Dir(path)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return StatusError
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		log.Debug("buildengine: start failed for %s: %v", root, err)
		return StatusError
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if token.IsCancelled() {
			_ = cmd.Process.Kill()
			return StatusCancelled
		}
		if onLine != nil {
			onLine(scanner.Text())
		}
	}

	if err := cmd.Wait(); err != nil {
		if token.IsCancelled() {
			return StatusCancelled
		}
		log.Debug("buildengine: build failed for %s: %v", root, errors.Wrap(err, "typesetter"))
		return StatusFailure
	}

	return StatusSuccess
}

// ForwardSearch reports whether a forward-search from pos in u can be
// performed, which requires a configured build.executable (§6:
// "textDocument/forwardSearch ... result = { status: SUCCESS|ERROR|
// FAILURE|UNCONFIGURED }"). The actual viewer-jump is a client-side
// effect driven by the returned status and the output PDF path; this
// engine only validates configuration and resolves the target position.
func (e *Engine) ForwardSearch(u uri.Uri, pos Position, cfg Config) Status {
	if cfg.Executable == "" {
		return StatusUnconfigured
	}
	if u.Path() == "" {
		return StatusError
	}
	e.NoteCursor(u, pos)
	return StatusSuccess
}
