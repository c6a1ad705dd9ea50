package diag

import (
	"fmt"

	"github.com/google/uuid"

	"phpdoctype.dev/phpdoctype/token"
)

// Edit is one accepted fix's source replacement, recorded between a
// BeginChangeset/EndChangeset pair. Pos is the position of the token
// the edit applies to (a scanner token always starts there); Offset
// and OldLen locate the byte range within that token's own Text that
// Text replaces, since a fix's target is often interior to a token
// (a type inside a DocComment) rather than the whole token itself.
type Edit struct {
	Pos    token.Pos
	Offset int
	OldLen int
	Text   string
}

// Collector is the in-process Reporter the CLI drives: it accumulates
// Findings and, for every fix the AcceptFixes policy approves, the
// Edits needed to apply it.
type Collector struct {
	File string

	Findings []Finding
	Edits    []Edit

	// AcceptFixes decides whether AddFixableWarning also applies its
	// fix. false makes every fixable warning report-only.
	AcceptFixes bool

	inChangeset bool
	pending     []Edit
}

func (c *Collector) AddError(code string, pos token.Pos, format string, args ...any) {
	c.Findings = append(c.Findings, Finding{Code: code, Severity: Error, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) AddWarning(code string, pos token.Pos, format string, args ...any) {
	c.Findings = append(c.Findings, Finding{Code: code, Severity: Warning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) AddFixableWarning(code string, pos token.Pos, format string, args ...any) bool {
	c.Findings = append(c.Findings, Finding{Code: code, Severity: Warning, Pos: pos, Message: fmt.Sprintf(format, args...), Fixable: true})
	return c.AcceptFixes
}

func (c *Collector) BeginChangeset() {
	c.inChangeset = true
	c.pending = nil
}

func (c *Collector) ReplaceToken(pos token.Pos, offset, oldLen int, text string) {
	c.pending = append(c.pending, Edit{Pos: pos, Offset: offset, OldLen: oldLen, Text: text})
}

func (c *Collector) EndChangeset() {
	c.Edits = append(c.Edits, c.pending...)
	c.pending = nil
	c.inChangeset = false
}

// RunID identifies one CLI invocation across every file's JSON report,
// so downstream tooling can correlate a batch of findings.
func RunID() string { return uuid.NewString() }
