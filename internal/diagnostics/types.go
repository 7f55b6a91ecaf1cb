// Package diagnostics implements the two independent analysis pipelines
// and the merged per-URI publication view described in §4.5: a fast
// structural analyzer over the syntax tree, and a slower external-linter
// pipeline, both writing into a DiagnosticsManager guarded by a single
// mutex. The Debouncer sits upstream of both, coalescing bursts of
// same-key change events (§4.5, §8).
package diagnostics

import protocol "github.com/tliron/glsp/protocol_3_16"

// Severity mirrors the LSP DiagnosticSeverity scale.
type Severity = protocol.DiagnosticSeverity

// Diagnostic is this package's internal representation, converted to the
// wire protocol.Diagnostic only at the point of publication.
type Diagnostic struct {
	Range    protocol.Range
	Message  string
	Severity Severity
	Source   string
}

func sev(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

const (
	severityError   = protocol.DiagnosticSeverityError
	severityWarning = protocol.DiagnosticSeverityWarning
)

// ToProtocol converts a Diagnostic to the wire type.
func (d Diagnostic) ToProtocol() protocol.Diagnostic {
	source := d.Source
	return protocol.Diagnostic{
		Range:    d.Range,
		Message:  d.Message,
		Severity: sev(d.Severity),
		Source:   &source,
	}
}
