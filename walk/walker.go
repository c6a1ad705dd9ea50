// Package walk implements the two-pass DeclarationWalker of §4.5: pass
// 1 (CollectArtifacts) gathers class hierarchy shape; pass 2 (Walker)
// pairs every declaration's PHPDoc block with its native annotations
// and runs the check table over each pair.
package walk

import (
	"fmt"
	"strings"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/internal/config"
	"phpdoctype.dev/phpdoctype/phpdoc"
	"phpdoctype.dev/phpdoctype/phptype"
	"phpdoctype.dev/phpdoctype/token"
)

// Walker runs pass 2 over one file's token stream, reporting through a
// diag.Reporter.
type Walker struct {
	cfg       config.Config
	hier      phptype.Hierarchy
	reporter  diag.Reporter
	artifacts map[string]phptype.Artifact
}

// NewWalker builds a Walker for pass 2. artifacts is the map
// CollectArtifacts produced during pass 1 (for this file, or merged
// across every file of the run), used to
// resolve each class's declared parent when descending into its body.
func NewWalker(cfg config.Config, hier phptype.Hierarchy, reporter diag.Reporter, artifacts map[string]phptype.Artifact) *Walker {
	return &Walker{cfg: cfg, hier: hier, reporter: reporter, artifacts: artifacts}
}

// Walk visits every namespace, use, classish and function declaration
// in sc, in source order. A malformed construct is recovered from by
// resuming at the next declaration boundary, unless the walker is
// running in debug mode, in which case the error is returned instead
// of being swallowed.
func (w *Walker) Walk(sc *token.Scanner) (err error) {
	s := newTokStream(sc)
	scopes := []phptype.Scope{phptype.NewRootScope()}
	var pending *phpdoc.Block

	flush := func() {
		if pending == nil {
			return
		}
		w.processPossVarComment(scopes[len(scopes)-1], pending)
		pending = nil
	}

	if w.cfg.DebugMode {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					panic(r)
				}
			}
		}()
	}

	for !s.eof() {
		t := s.peek(0)
		switch t.Type {
		case token.EOF:
			flush()
			return nil

		case token.Whitespace, token.Comment, token.Attribute:
			s.next()

		case token.DocComment:
			flush()
			block, perr := phpdoc.Parse(t.Pos, strings.NewReader(text(t)))
			s.next()
			if perr == nil {
				pending = block
			} else if w.cfg.DebugMode {
				return perr
			}

		case token.Namespace:
			flush()
			w.processNamespace(&scopes, s)

		case token.Use:
			flush()
			w.processUse(&scopes[len(scopes)-1], s)

		case token.Class, token.Interface, token.Trait, token.Enum:
			doc := pending
			pending = nil
			w.recovering(func() { w.processClassish(&scopes, s, doc) })

		case token.Function:
			doc := pending
			pending = nil
			w.recovering(func() { w.processFunction(scopes[len(scopes)-1], s, doc, funcModifiers{IsPublic: true}) })

		case token.Rbrace:
			s.next()
			flush()
			if len(scopes) > 1 {
				scopes = scopes[:len(scopes)-1]
			}

		default:
			s.next()
		}
	}
	flush()
	return nil
}

// recovering runs a per-declaration handler, swallowing any raise it
// panics with unless the walker is in debug mode, in which case the
// panic is left to propagate out of Walk as an error. Either way the
// handler's own token consumption up to the point of failure stands,
// so the outer loop simply resumes scanning from wherever it stopped.
func (w *Walker) recovering(fn func()) {
	if w.cfg.DebugMode {
		fn()
		return
	}
	defer func() { recover() }()
	fn()
}

// raise aborts the current declaration handler on a token-stream
// shape it has no sensible way to continue from (a truncated file
// mid-signature, say). Recovered by recovering, or by Walk's own
// deferred recover in debug mode.
func raise(format string, args ...any) {
	panic(fmt.Errorf(format, args...))
}

func (w *Walker) processNamespace(scopes *[]phptype.Scope, s *tokStream) {
	s.next() // 'namespace'
	s.skipTrivia()
	name := readQualifiedName(s)
	s.skipTrivia()

	root := (*scopes)[0]
	ns := root.Clone()
	ns.Namespace = "\\" + strings.TrimPrefix(name, "\\")
	ns.Kind = phptype.ScopeNamespace

	if s.peek(0).Type == token.Lbrace {
		s.next()
		*scopes = append(*scopes, ns)
		return
	}
	// Non-block form: "namespace Foo;" reopens the top-level scope for
	// the remainder of the file.
	(*scopes)[len(*scopes)-1] = ns
	if s.peek(0).Type == token.Semicolon {
		s.next()
	}
}

func (w *Walker) processUse(scope *phptype.Scope, s *tokStream) {
	s.next() // 'use'
	s.skipTrivia()
	// A leading "function"/"const" use-group modifier doesn't affect
	// class-name resolution, so it's simply skipped.
	if s.peek(0).Type == token.Function || s.peek(0).Type == token.Const {
		s.next()
		s.skipTrivia()
	}
	fq := readQualifiedName(s)
	if fq == "" {
		skipToSemicolon(s)
		return
	}
	alias := lastSegment(fq)
	s.skipTrivia()
	if s.peek(0).Type == token.As {
		s.next()
		s.skipTrivia()
		if s.peek(0).Type == token.Ident {
			alias = text(s.peek(0))
			s.next()
		}
	}
	scope.Uses[alias] = fq
	skipToSemicolon(s)
}

func (w *Walker) processClassish(scopes *[]phptype.Scope, s *tokStream, doc *phpdoc.Block) {
	s.next() // class/interface/trait/enum keyword
	s.skipTrivia()

	namePos := s.peek(0).Pos
	name := ""
	if s.peek(0).Type == token.Ident {
		name = text(s.peek(0))
		s.next()
	}

	top := (*scopes)[len(*scopes)-1]
	fq := top.Namespace + "\\" + name

	// extends/implements was already fully resolved in pass 1; here we
	// only need to skip past the clause syntactically.
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Extends, token.Implements, token.Comma, token.Ident, token.Backslash:
			s.next()
		default:
			goto afterHeritage
		}
	}
afterHeritage:
	s.skipTrivia()
	w.checkClassHasDoc(namePos, name, doc)
	if s.peek(0).Type == token.EOF {
		raise("unexpected end of file in declaration of %s", name)
	}
	if s.peek(0).Type != token.Lbrace {
		return
	}
	s.next()

	child := top.Clone()
	child.Classname = fq
	if a, ok := w.artifacts[fq]; ok {
		child.Parentname = a.Extends
	}
	child.Kind = phptype.ScopeClassish
	*scopes = append(*scopes, child)

	w.walkClassBody(scopes, s)

	*scopes = (*scopes)[:len(*scopes)-1]
}

func (w *Walker) walkClassBody(scopes *[]phptype.Scope, s *tokStream) {
	scope := (*scopes)[len(*scopes)-1]
	var pending *phpdoc.Block
	flush := func() {
		if pending != nil {
			w.processPossVarComment(scope, pending)
			pending = nil
		}
	}

	for !s.eof() {
		t := s.peek(0)
		switch t.Type {
		case token.Whitespace, token.Comment, token.Attribute:
			s.next()

		case token.DocComment:
			flush()
			block, err := phpdoc.Parse(t.Pos, strings.NewReader(text(t)))
			s.next()
			if err == nil {
				pending = block
			} else if w.cfg.DebugMode {
				raise("%v", err)
			}

		case token.Rbrace:
			s.next()
			flush()
			return

		case token.Use:
			flush()
			s.next()
			skipTraitUse(s)

		case token.Case, token.Const:
			flush()
			s.next()
			skipToSemicolon(s)

		case token.Function:
			doc := pending
			pending = nil
			w.recovering(func() { w.processFunction(scope, s, doc, funcModifiers{IsPublic: true}) })

		case token.Public, token.Protected, token.Private, token.Static, token.Abstract, token.Final, token.Readonly, token.Var_:
			mods := readModifiers(s)
			s.skipTrivia()
			switch s.peek(0).Type {
			case token.Function:
				doc := pending
				pending = nil
				w.recovering(func() { w.processFunction(scope, s, doc, mods) })
			case token.Const:
				s.next()
				skipToSemicolon(s)
			default:
				doc := pending
				pending = nil
				w.recovering(func() { w.processProperty(scope, s, doc) })
			}

		case token.EOF:
			return

		default:
			s.next()
		}
	}
}

func (w *Walker) processProperty(scope phptype.Scope, s *tokStream, doc *phpdoc.Block) {
	var typeToks []token.Token
	for {
		s.skipTrivia()
		switch s.peek(0).Type {
		case token.Var, token.Semicolon, token.EOF:
		default:
			typeToks = append(typeToks, s.next())
			continue
		}
		break
	}
	typeText := spanText(typeToks)

	for s.peek(0).Type == token.Var {
		pos := s.peek(0).Pos
		name := strings.TrimPrefix(text(s.peek(0)), "$")
		s.next()

		depth := 0
		for !s.eof() {
			t := s.peek(0)
			if depth == 0 && (t.Type == token.Comma || t.Type == token.Semicolon) {
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

		w.checkProperty(scope, pos, name, typeText, doc)

		s.skipTrivia()
		if s.peek(0).Type == token.Comma {
			s.next()
			s.skipTrivia()
			continue
		}
		break
	}
	if s.peek(0).Type == token.Semicolon {
		s.next()
	}
}

func (w *Walker) processFunction(scope phptype.Scope, s *tokStream, doc *phpdoc.Block, mods funcModifiers) {
	s.next() // 'function'
	s.skipTrivia()
	if s.peek(0).Type == token.BitAnd {
		s.next()
		s.skipTrivia()
	}

	namePos := s.peek(0).Pos
	name := ""
	if s.peek(0).Type == token.Ident {
		name = text(s.peek(0))
		s.next()
	}
	s.skipTrivia()
	if s.peek(0).Type == token.EOF {
		raise("unexpected end of file in signature of %s", name)
	}
	if s.peek(0).Type != token.Lparen {
		return
	}
	s.next()

	fnScope := scope.Clone()
	fnScope.Kind = phptype.ScopeFunction
	params := processParamList(s)
	ret := processReturnType(s)

	s.skipTrivia()
	switch s.peek(0).Type {
	case token.Lbrace:
		s.next()
		skipBalanced(s, token.Lbrace, token.Rbrace)
	case token.Semicolon:
		s.next()
	}

	w.checkFunction(fnScope, namePos, name, params, ret, doc, mods)
}
