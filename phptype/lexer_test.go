package phptype

import "testing"

func lexAll(src string) []rawTok {
	c := newLexCursor(src)
	var out []rawTok
	for {
		t := c.next()
		out = append(out, t)
		if t.Kind == rawEOF {
			return out
		}
	}
}

func TestLexEllipsisAndDoubleColon(t *testing.T) {
	toks := lexAll("...::")
	if toks[0].Kind != rawEllipsis || toks[1].Kind != rawDColon {
		t.Fatalf("toks = %+v", toks)
	}
}

func TestLexQualifiedNameIsOneToken(t *testing.T) {
	toks := lexAll(`\App\Models\User`)
	if len(toks) != 2 || toks[0].Kind != rawIdent || toks[0].Text != `\App\Models\User` {
		t.Fatalf("toks = %+v", toks)
	}
}

func TestLexVariableName(t *testing.T) {
	toks := lexAll("$foo")
	if toks[0].Kind != rawIdent || toks[0].Text != "$foo" {
		t.Fatalf("toks = %+v", toks)
	}
}

func TestLexSpaceBeforeTracked(t *testing.T) {
	toks := lexAll("int  string")
	if toks[0].SpaceBefore {
		t.Error("first token should have no leading space")
	}
	if !toks[1].SpaceBefore {
		t.Error("second token should record its leading space")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks := lexAll(`'unterminated`)
	if toks[0].Kind != rawEOF || !toks[0].Unterminated {
		t.Fatalf("toks = %+v, want an unterminated EOF sentinel", toks)
	}
}

func TestLexKeywordHyphen(t *testing.T) {
	toks := lexAll("class-string")
	if toks[0].Kind != rawIdent || toks[0].Text != "class-string" {
		t.Fatalf("toks = %+v", toks)
	}
}
