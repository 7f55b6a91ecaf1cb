// Package lineindex maps between byte offsets and LSP (line, UTF-16 column)
// positions for a document's text. Built once per Document snapshot.
package lineindex

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/texls/texls/internal/position"
)

// LineIndex is an immutable byte<->line/column mapping for a fixed text.
type LineIndex struct {
	text       string
	lineStarts []int // byte offset of the start of each line
}

// New builds a LineIndex over text. Lines are split on '\n'; '\r' is left
// as part of the preceding line's content (consistent with how LSP ranges
// are measured against the raw text).
func New(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// LineCount returns the number of lines in the text.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

// LineColToOffset converts a zero-based (line, UTF-16 column) pair to a byte
// offset, clamped to the text bounds.
func (li *LineIndex) LineColToOffset(line, utf16Col int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(li.lineStarts) {
		return len(li.text)
	}
	lineStart := li.lineStarts[line]
	lineEnd := li.lineEnd(line)
	lineText := li.text[lineStart:lineEnd]
	return lineStart + position.UTF16ToByteOffset(lineText, utf16Col)
}

// OffsetToLineCol converts a byte offset to a zero-based (line, UTF-16
// column) pair.
func (li *LineIndex) OffsetToLineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.text) {
		offset = len(li.text)
	}
	// last line whose start is <= offset
	line = sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	lineStart := li.lineStarts[line]
	col = position.ByteOffsetToUTF16(li.text[lineStart:offset], offset-lineStart)
	return line, col
}

// OffsetToPosition converts a byte offset to an LSP Position.
func (li *LineIndex) OffsetToPosition(offset int) protocol.Position {
	line, col := li.OffsetToLineCol(offset)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

// PositionToOffset converts an LSP Position to a byte offset.
func (li *LineIndex) PositionToOffset(pos protocol.Position) int {
	return li.LineColToOffset(int(pos.Line), int(pos.Character))
}

// RangeToLSP converts a [start, end) byte range to an LSP Range.
func (li *LineIndex) RangeToLSP(start, end int) protocol.Range {
	return protocol.Range{Start: li.OffsetToPosition(start), End: li.OffsetToPosition(end)}
}

// LSPToRange converts an LSP Range to a [start, end) byte range.
func (li *LineIndex) LSPToRange(r protocol.Range) (start, end int) {
	return li.PositionToOffset(r.Start), li.PositionToOffset(r.End)
}

func (li *LineIndex) lineEnd(line int) int {
	if line+1 < len(li.lineStarts) {
		end := li.lineStarts[line+1] - 1 // exclude the '\n'
		if end < li.lineStarts[line] {
			return li.lineStarts[line]
		}
		return end
	}
	return len(li.text)
}
