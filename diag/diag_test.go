package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/token"
)

func TestCollectorFixableWarning(t *testing.T) {
	c := &diag.Collector{AcceptFixes: true}
	pos := token.Pos{Line: 3, Column: 5}
	apply := c.AddFixableWarning(diag.CodeTypeStyle, pos, "want %s, got %s", "int", "integer")
	if !apply {
		t.Fatal("expected AcceptFixes policy to approve the fix")
	}
	c.BeginChangeset()
	c.ReplaceToken(pos, 4, 7, "int")
	c.EndChangeset()

	if len(c.Findings) != 1 || !c.Findings[0].Fixable {
		t.Fatalf("findings = %+v", c.Findings)
	}
	if len(c.Edits) != 1 || c.Edits[0].Text != "int" || c.Edits[0].Offset != 4 || c.Edits[0].OldLen != 7 {
		t.Fatalf("edits = %+v", c.Edits)
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	diag.RenderText(&buf, "User.php", []diag.Finding{
		{Code: diag.CodeFunParamMismatch, Severity: diag.Error, Pos: token.Pos{Line: 10, Column: 2}, Message: "type mismatch"},
	})
	got := buf.String()
	if !strings.Contains(got, "User.php:10:2: error: type mismatch") {
		t.Errorf("unexpected rendering: %q", got)
	}
	if !strings.Contains(got, diag.CodeFunParamMismatch) {
		t.Errorf("missing code in rendering: %q", got)
	}
}
