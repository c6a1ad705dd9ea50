package walk

import "phpdoctype.dev/phpdoctype/token"

// tokStream adds arbitrary lookahead on top of token.Scanner, which
// only exposes Next.
type tokStream struct {
	sc  *token.Scanner
	buf []token.Token
}

func newTokStream(sc *token.Scanner) *tokStream { return &tokStream{sc: sc} }

func (s *tokStream) peek(k int) token.Token {
	for len(s.buf) <= k {
		s.buf = append(s.buf, s.sc.Next())
	}
	return s.buf[k]
}

func (s *tokStream) next() token.Token {
	t := s.peek(0)
	if len(s.buf) > 0 {
		s.buf = s.buf[1:]
	}
	return t
}

func (s *tokStream) eof() bool { return s.peek(0).Type == token.EOF }

// text returns a token's source spelling: its Text field for
// literal-carrying tokens, or the canonical spelling of its Type for
// keyword/symbol tokens whose Text is left empty by the scanner.
func text(t token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	return t.Type.String()
}

var triviaTypes = []token.Type{token.Whitespace, token.Comment, token.Attribute}

// skipTrivia advances past whitespace, line/block comments, and
// attribute groups, none of which affect declaration recognition.
// DocComments are never skipped here: callers that care about them
// handle them explicitly so the pending-comment invariant holds.
func (s *tokStream) skipTrivia() {
	for {
		t := s.peek(0).Type
		skip := false
		for _, ty := range triviaTypes {
			if t == ty {
				skip = true
				break
			}
		}
		if !skip {
			return
		}
		s.next()
	}
}

// skipTriviaAndDocs is like skipTrivia but also discards any doc
// comments seen, for pass 1 where only artifact shape matters.
func (s *tokStream) skipTriviaAndDocs() {
	for {
		s.skipTrivia()
		if s.peek(0).Type != token.DocComment {
			return
		}
		s.next()
	}
}

// readQualifiedName consumes a (possibly namespace-separated) name
// starting at the current position, e.g. `\App\Models\User`.
func readQualifiedName(s *tokStream) string {
	var out []byte
	if s.peek(0).Type == token.Backslash {
		out = append(out, '\\')
		s.next()
	}
	for {
		s.skipTrivia()
		t := s.peek(0)
		if t.Type != token.Ident {
			break
		}
		out = append(out, text(t)...)
		s.next()
		if s.peek(0).Type == token.Backslash {
			out = append(out, '\\')
			s.next()
			continue
		}
		break
	}
	return string(out)
}

// skipBalanced consumes tokens up to and including the token that
// balances the opener already consumed (open having been observed at
// depth 1), for open/close pairs like braces or parens.
func skipBalanced(s *tokStream, open, close token.Type) {
	depth := 1
	for depth > 0 && !s.eof() {
		switch s.peek(0).Type {
		case open:
			depth++
		case close:
			depth--
		}
		s.next()
	}
}
