package citeproc

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/texls/texls/internal/log"
	"github.com/texls/texls/internal/syntax"
)

// ConverterConfig configures the external bibliography-conversion
// routine §4.7 step 2 delegates the BibTeX-to-RIS conversion to (e.g.
// a "bib2ris" style CLI tool). Empty Executable disables conversion,
// yielding "no hover" for every citation.
type ConverterConfig struct {
	Executable string
	Args       []string
}

// Convert is the BibTeX-mini-source -> RIS conversion stage, injected
// so the rest of the pipeline is independently testable without an
// external subprocess.
type Convert func(ctx context.Context, bibtexSource string) (ris string, err error)

// ExternalConverter returns a Convert that shells out to cfg.Executable,
// piping the mini-source on stdin and reading RIS text from stdout, in
// the same subprocess-wrapper shape internal/diagnostics.RunLinter uses
// for its external chktex integration.
func ExternalConverter(cfg ConverterConfig) Convert {
	return func(ctx context.Context, bibtexSource string) (string, error) {
		if cfg.Executable == "" {
			return "", nil
		}
		cmd := exec.CommandContext(ctx, cfg.Executable, cfg.Args...)
		cmd.Stdin = strings.NewReader(bibtexSource)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil {
			return "", errors.Wrap(err, "citeproc: bibliography conversion failed")
		}
		return stdout.String(), nil
	}
}

// RenderCitation runs the full staged pipeline described in §4.7: locate
// the entry, resolve string macros and re-emit a mini-source, convert to
// RIS, parse and map to CSL, render a fixed APA HTML template, and
// convert to markdown with fixups. Any stage failing yields "", never an
// error (§7: citation pipeline failures are silent).
func RenderCitation(ctx context.Context, convert Convert, root *syntax.Node, key string) string {
	mini := BuildMiniSource(root, key)
	if mini == "" {
		return ""
	}

	ris, err := convert(ctx, mini)
	if err != nil {
		log.Debug("citeproc: conversion stage failed: %v", err)
		return ""
	}
	if strings.TrimSpace(ris) == "" {
		return ""
	}

	refs := ParseRIS(ris)
	if len(refs) == 0 {
		return ""
	}

	csl := ToCsl(refs[0])
	fragment := renderAPA(csl)
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	md, err := toMarkdown(fragment)
	if err != nil {
		log.Debug("citeproc: markdown conversion failed: %v", err)
		return ""
	}
	md = postProcess(md)
	if md == "" {
		return ""
	}
	return md
}
