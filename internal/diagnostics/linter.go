package diagnostics

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/texls/texls/internal/lineindex"
	"github.com/texls/texls/internal/log"
)

// LinterConfig names the external linter executable and the arguments it
// is invoked with (§6: build.executable-style passthrough, generalized to
// the chktex-on-open-and-save/on-edit linter hook).
type LinterConfig struct {
	Executable string
	Args       []string
}

// linterLinePattern matches chktex-style "path:line:col:message" output.
// The column is informational; the whole line is underlined since the
// external tool does not report a span.
var linterLinePattern = regexp.MustCompile(`^[^:]*:(\d+):(\d+):(.*)$`)

// RunLinter runs the configured external linter against text (fed on
// stdin) and parses its stdout into Diagnostics positioned via index.
// A non-zero exit status from the linter itself is not an error here —
// only a failure to start the process is (§7: IO errors surface as an
// absent result, not a request failure; a linter's own diagnostic exit
// code is expected, ordinary output).
func RunLinter(ctx context.Context, cfg LinterConfig, text string, index *lineindex.LineIndex) ([]Diagnostic, error) {
	if cfg.Executable == "" {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, cfg.Executable, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "diagnostics: creating linter stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "diagnostics: creating linter stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "diagnostics: starting linter %q", cfg.Executable)
	}

	go func() {
		defer stdin.Close()
		_, _ = stdin.Write([]byte(text))
	}()

	var out []Diagnostic
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		d, ok := parseLinterLine(scanner.Text(), index)
		if ok {
			out = append(out, d)
		}
	}

	// The linter exiting non-zero is its normal failure-reporting mode,
	// not a runner error; only log it.
	if err := cmd.Wait(); err != nil {
		log.Debug("diagnostics: linter %q exited: %v", cfg.Executable, err)
	}

	return out, nil
}

func parseLinterLine(line string, index *lineindex.LineIndex) (Diagnostic, bool) {
	m := linterLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}
	lineNo, err := strconv.Atoi(m[1])
	if err != nil {
		return Diagnostic{}, false
	}
	lineNo--
	if lineNo < 0 || lineNo >= index.LineCount() {
		return Diagnostic{}, false
	}

	start := index.LineColToOffset(lineNo, 0)
	end := index.LineColToOffset(lineNo, 1<<30)

	return Diagnostic{
		Range:    index.RangeToLSP(start, end),
		Message:  m[3],
		Severity: severityWarning,
		Source:   "chktex",
	}, true
}
