package walk

import "phpdoctype.dev/phpdoctype/token"

// Param is one parameter's native-annotation shape, extracted from
// the token stream: the type span's literal text (empty if
// untyped), any "&"/"..." markers, and the parameter's own position.
type Param struct {
	Name      string
	TypeText  string
	PassSplat string
	Pos       token.Pos
}

// funcModifiers records the subset of a method's modifiers the checks
// care about.
type funcModifiers struct {
	IsPublic bool
}

func readModifiers(s *tokStream) funcModifiers {
	m := funcModifiers{IsPublic: true}
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Public:
			m.IsPublic = true
			s.next()
		case token.Protected, token.Private:
			m.IsPublic = false
			s.next()
		case token.Static, token.Abstract, token.Final, token.Readonly, token.Var_:
			s.next()
		default:
			return m
		}
	}
}

// spanText reconstructs a type expression's literal text from the
// tokens that make it up, dropping intervening whitespace (type
// grammar never depends on it).
func spanText(toks []token.Token) string {
	var out []byte
	for _, t := range toks {
		out = append(out, text(t)...)
	}
	return string(out)
}

func processParamList(s *tokStream) []Param {
	var params []Param
	s.skipTrivia()
	if s.peek(0).Type == token.Rparen {
		s.next()
		return params
	}
	for {
		params = append(params, readOneParam(s))
		s.skipTrivia()
		if s.peek(0).Type == token.Comma {
			s.next()
			s.skipTrivia()
			if s.peek(0).Type == token.Rparen {
				break // trailing comma
			}
			continue
		}
		break
	}
	for !s.eof() && s.peek(0).Type != token.Rparen {
		s.next()
	}
	if !s.eof() {
		s.next()
	}
	return params
}

func readOneParam(s *tokStream) Param {
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Public, token.Protected, token.Private, token.Readonly:
			s.next()
			continue
		}
		break
	}

	var typeToks []token.Token
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Var, token.BitAnd, token.Ellipsis, token.Comma, token.Rparen, token.Assign, token.EOF:
		default:
			typeToks = append(typeToks, s.next())
			continue
		}
		break
	}

	passSplat := ""
	s.skipTrivia()
	if s.peek(0).Type == token.BitAnd {
		passSplat += "&"
		s.next()
	}
	s.skipTrivia()
	if s.peek(0).Type == token.Ellipsis {
		passSplat += "..."
		s.next()
	}

	s.skipTrivia()
	var name string
	var pos token.Pos
	if s.peek(0).Type == token.Var {
		name = text(s.peek(0))
		pos = s.peek(0).Pos
		s.next()
	}

	depth := 0
	for !s.eof() {
		t := s.peek(0)
		if depth == 0 && (t.Type == token.Comma || t.Type == token.Rparen) {
			break
		}
		switch t.Type {
		case token.Lparen, token.Lbrack, token.Lbrace:
			depth++
		case token.Rparen, token.Rbrack, token.Rbrace:
			depth--
		}
		s.next()
	}
	return Param{Name: name, TypeText: spanText(typeToks), PassSplat: passSplat, Pos: pos}
}

func processReturnType(s *tokStream) string {
	s.skipTrivia()
	if s.peek(0).Type != token.Colon {
		return ""
	}
	s.next()
	var toks []token.Token
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Lbrace, token.Semicolon, token.EOF:
			return spanText(toks)
		default:
			toks = append(toks, s.next())
		}
	}
}

func isVoidish(typeText string) bool {
	switch typeText {
	case "void", "never":
		return true
	}
	return false
}

func skipTraitUse(s *tokStream) {
	for !s.eof() {
		t := s.peek(0)
		if t.Type == token.Semicolon {
			s.next()
			return
		}
		if t.Type == token.Lbrace {
			s.next()
			skipBalanced(s, token.Lbrace, token.Rbrace)
			s.skipTrivia()
			if s.peek(0).Type == token.Semicolon {
				s.next()
			}
			return
		}
		s.next()
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// extractParamName reads the "$name" out of a @param tag's raw
// content, wherever it falls in "TYPE $name description".
func extractParamName(content string) string {
	i := -1
	for j := 0; j < len(content); j++ {
		if content[j] == '$' {
			i = j
			break
		}
	}
	if i < 0 {
		return ""
	}
	j := i + 1
	for j < len(content) && isIdentByte(content[j]) {
		j++
	}
	return content[i+1 : j]
}
