package walk

import (
	"strings"

	"phpdoctype.dev/phpdoctype/phptype"
	"phpdoctype.dev/phpdoctype/token"
)

// CollectArtifacts is pass 1 of §4.5: it visits classish declarations
// only and records their extends/implements relations, fully
// qualified against the uses/namespace in effect at the point of
// declaration.
func CollectArtifacts(sc *token.Scanner) map[string]phptype.Artifact {
	s := newTokStream(sc)
	artifacts := map[string]phptype.Artifact{}

	namespace := ""
	uses := map[string]string{}

	resolve := func(name string) string {
		if name == "" || name[0] == '\\' {
			return name
		}
		head, rest := name, ""
		for i := 0; i < len(name); i++ {
			if name[i] == '\\' {
				head, rest = name[:i], name[i:]
				break
			}
		}
		if fq, ok := uses[head]; ok {
			return fq + rest
		}
		return namespace + "\\" + name
	}

	for !s.eof() {
		s.skipTriviaAndDocs()
		t := s.peek(0)
		switch t.Type {
		case token.EOF:
			return artifacts
		case token.Namespace:
			s.next()
			s.skipTriviaAndDocs()
			namespace = "\\" + strings.TrimPrefix(readQualifiedName(s), "\\")
			uses = map[string]string{}
		case token.Use:
			s.next()
			s.skipTriviaAndDocs()
			fq := readQualifiedName(s)
			alias := lastSegment(fq)
			s.skipTriviaAndDocs()
			if s.peek(0).Type == token.As {
				s.next()
				s.skipTriviaAndDocs()
				if s.peek(0).Type == token.Ident {
					alias = text(s.peek(0))
					s.next()
				}
			}
			uses[alias] = fq
			skipToSemicolon(s)
		case token.Class, token.Interface, token.Trait, token.Enum:
			s.next()
			s.skipTriviaAndDocs()
			if s.peek(0).Type != token.Ident {
				continue
			}
			name := text(s.peek(0))
			s.next()
			fq := namespace + "\\" + name

			var art phptype.Artifact
			s.skipTriviaAndDocs()
			if s.peek(0).Type == token.Extends {
				s.next()
				s.skipTriviaAndDocs()
				art.Extends = resolve(readQualifiedName(s))
				for {
					s.skipTriviaAndDocs()
					if s.peek(0).Type != token.Comma {
						break
					}
					s.next()
					s.skipTriviaAndDocs()
					art.Implements = append(art.Implements, resolve(readQualifiedName(s)))
				}
			}
			s.skipTriviaAndDocs()
			if s.peek(0).Type == token.Implements {
				s.next()
				for {
					s.skipTriviaAndDocs()
					art.Implements = append(art.Implements, resolve(readQualifiedName(s)))
					s.skipTriviaAndDocs()
					if s.peek(0).Type != token.Comma {
						break
					}
					s.next()
				}
			}
			artifacts[fq] = art
			skipToBodyOrSemicolon(s)
		default:
			s.next()
		}
	}
	return artifacts
}

func lastSegment(fq string) string {
	last := fq
	for i := 0; i < len(fq); i++ {
		if fq[i] == '\\' {
			last = fq[i+1:]
		}
	}
	return last
}

func skipToSemicolon(s *tokStream) {
	for !s.eof() && s.peek(0).Type != token.Semicolon {
		s.next()
	}
	if !s.eof() {
		s.next()
	}
}

// skipToBodyOrSemicolon consumes up to and including a classish
// declaration's opening brace (leaving its body for the caller's own
// loop to walk past) or, for an interface's own semicolon-less
// grammar there is none, but a forward-declared class stub ending in
// ';' is defensively handled too.
func skipToBodyOrSemicolon(s *tokStream) {
	for !s.eof() {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Lbrace:
			s.next()
			return
		case token.Semicolon:
			s.next()
			return
		default:
			s.next()
		}
	}
}
