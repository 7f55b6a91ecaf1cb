// Package config decodes the server's recognized configuration options
// (§6 "Configuration (pull/push)"), pushed via
// workspace/didChangeConfiguration or pulled via workspace/configuration.
// Grounded on the teacher's lsp/types.ServerConfig (a flat struct decoded
// from the client's `initializationOptions`/configuration payload via
// yaml.v3, since the teacher's own config file format is YAML).
package config

import (
	"gopkg.in/yaml.v3"
)

// ChktexConfig controls when the external chktex-style linter runs
// (§6: "chktex.on_open_and_save", "chktex.on_edit").
type ChktexConfig struct {
	OnOpenAndSave bool `yaml:"on_open_and_save"`
	OnEdit        bool `yaml:"on_edit"`
}

// BuildConfig controls the external typesetter invocation (§4.8, §6
// "build.*").
type BuildConfig struct {
	OnSave            bool     `yaml:"on_save"`
	Executable        string   `yaml:"executable"`
	Args              []string `yaml:"args"`
	ForwardSearchAfter bool    `yaml:"forward_search_after"`
}

// CiteprocConfig names the external bibliography-conversion routine the
// citation-rendering pipeline's RIS stage delegates to (§4.7 step 2).
type CiteprocConfig struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// FormatConfig names the external formatter (e.g. latexindent,
// bibtex-tidy) textDocument/formatting delegates to, one of the
// passed-through "formatter choice, bibtex formatting" style options
// named at §6.
type FormatConfig struct {
	Executable string   `yaml:"executable"`
	Args       []string `yaml:"args"`
}

// ServerConfig is the full set of recognized options plus an open bag for
// passthrough style/behavior options the server never interprets itself
// (§6: "Additional style/behavior options ... are passed through
// untouched").
type ServerConfig struct {
	AuxDirectory string         `yaml:"aux_directory"`
	Chktex       ChktexConfig   `yaml:"chktex"`
	Build        BuildConfig    `yaml:"build"`
	Citeproc     CiteprocConfig `yaml:"citeproc"`
	Format       FormatConfig   `yaml:"format"`

	Passthrough map[string]interface{} `yaml:"-"`
}

// DefaultConfig returns the server's configuration before any client
// push/pull, matching the teacher's DefaultConfig shape (linting and
// build-on-save disabled until the client opts in; the build executable
// defaults to pdflatex).
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Chktex: ChktexConfig{},
		Build:  BuildConfig{Executable: "pdflatex"},
	}
}

// Decode parses raw YAML configuration (as sent by a client that forwards
// its `texls` settings block) into a ServerConfig. Unrecognized keys are
// preserved in Passthrough rather than rejected, matching §6's passthrough
// requirement; a decode failure leaves cfg at its prior value (soft
// failure, consistent with §7's "never log-noisy" policy for
// configuration issues).
func Decode(raw []byte, cfg *ServerConfig) error {
	var known struct {
		AuxDirectory string         `yaml:"aux_directory"`
		Chktex       ChktexConfig   `yaml:"chktex"`
		Build        BuildConfig    `yaml:"build"`
		Citeproc     CiteprocConfig `yaml:"citeproc"`
		Format       FormatConfig   `yaml:"format"`
	}
	if err := yaml.Unmarshal(raw, &known); err != nil {
		return err
	}

	var everything map[string]interface{}
	if err := yaml.Unmarshal(raw, &everything); err == nil {
		delete(everything, "aux_directory")
		delete(everything, "chktex")
		delete(everything, "build")
		delete(everything, "citeproc")
		delete(everything, "format")
		cfg.Passthrough = everything
	}

	cfg.AuxDirectory = known.AuxDirectory
	cfg.Chktex = known.Chktex
	cfg.Citeproc = known.Citeproc
	cfg.Format = known.Format
	if known.Build.Executable != "" {
		cfg.Build = known.Build
	} else {
		cfg.Build.OnSave = known.Build.OnSave
		cfg.Build.Args = known.Build.Args
		cfg.Build.ForwardSearchAfter = known.Build.ForwardSearchAfter
	}
	return nil
}
