package phptype

import (
	"fmt"
	"strings"
)

// Want selects how much of a type-and-name production ParseTypeAndName
// should consume, per §4.2.
type Want int

const (
	WantType Want = iota
	WantName
	WantPassSplat
	WantDefaultValue
)

// ParseResult is the outcome of parsing one type-and-name production.
// TypeOK/NameOK mirror the source's optional (nullable) type/name
// fields: false means the corresponding parse failed or wasn't
// requested.
type ParseResult struct {
	Type   Type
	TypeOK bool

	// PassSplat carries the literal "&", "...", or their concatenation,
	// as written, when Want >= WantPassSplat.
	PassSplat string

	Name   string
	NameOK bool

	// Rem is whatever of the input text was not consumed.
	Rem string

	// Fixed is the style-corrected rendering of the consumed portion.
	Fixed string

	// PHPFig reports whether the consumed expression stays within the
	// published PHPDoc standard's subset.
	PHPFig bool
}

type snapshot struct {
	pos    int
	nfixes int
	phpfig bool
}

type parser struct {
	text  string
	cur   *lexCursor
	toks  []rawTok
	pos   int
	scope Scope
	h     Hierarchy
	// gowide selects the unknown-construct fallback: mixed when true
	// (native annotations), never when false (PHPDoc text).
	gowide bool

	fixes  []Fix
	phpfig bool
	err    error
}

func (p *parser) failed() bool { return p.err != nil }

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

func (p *parser) addFix(pos, length int, replacement string) {
	p.fixes = append(p.fixes, Fix{Pos: pos, Len: length, Replacement: replacement})
}

func (p *parser) markNonFig() { p.phpfig = false }

func (p *parser) snap() snapshot { return snapshot{pos: p.pos, nfixes: len(p.fixes), phpfig: p.phpfig} }

func (p *parser) restore(s snapshot) {
	p.pos = s.pos
	p.fixes = p.fixes[:s.nfixes]
	p.phpfig = s.phpfig
	p.err = nil
}

func (p *parser) peek(k int) rawTok {
	for len(p.toks) <= p.pos+k {
		p.toks = append(p.toks, p.cur.next())
	}
	return p.toks[p.pos+k]
}

func (p *parser) tok() rawTok { return p.peek(0) }

func (p *parser) advance() rawTok {
	t := p.peek(0)
	p.pos++
	return t
}

func (p *parser) isPunct(s string) bool {
	t := p.tok()
	return t.Kind == rawPunct && t.Text == s
}

func (p *parser) isEllipsis() bool { return p.tok().Kind == rawEllipsis }

func (p *parser) unknownFallback() Type {
	if p.gowide {
		return Single(KindMixed)
	}
	return Single(KindNever)
}

// ParseTypeAndName is the parser's primary entry point: it parses a
// type expression and, depending on want, a following variable name,
// pass-by-reference/variadic markers, and an implicit-nullable
// default value.
//
// gowide selects the unknown-construct fallback (mixed for native
// type hints, never for PHPDoc text), matching how the walker invokes
// the parser twice per declaration with the two annotation sources.
func ParseTypeAndName(scope Scope, text string, want Want, gowide bool, h Hierarchy) ParseResult {
	p := &parser{text: text, cur: newLexCursor(text), scope: scope, h: h, gowide: gowide, phpfig: true}
	start := p.snap()

	typ := p.parseAnyType()
	if !p.failed() && !p.trailingOK() {
		p.fail("unexpected trailing content after type")
	}
	if p.failed() {
		p.restore(start)
		return ParseResult{Rem: text}
	}

	res := ParseResult{Type: typ, TypeOK: true}

	if want >= WantPassSplat {
		if p.isPunct("&") {
			p.advance()
			res.PassSplat += "&"
		}
		if p.isEllipsis() {
			p.advance()
			res.PassSplat += "..."
		}
	}

	if want >= WantName {
		if p.tok().Kind == rawIdent && strings.HasPrefix(p.tok().Text, "$") {
			res.Name = p.advance().Text
			res.NameOK = true
			if !p.trailingOK() {
				p.fail("unexpected trailing content after name")
			}
		} else {
			p.fail("expected a variable name")
		}
	}

	if want >= WantDefaultValue && !p.failed() && p.isPunct("=") {
		p.advance()
		if p.tok().Kind == rawIdent && strings.EqualFold(p.tok().Text, "null") {
			p.advance()
			// Preserve the source's literal, non-recanonicalized
			// "|null" append for an implicit-nullable default; see
			// DESIGN.md.
			res.Type.Unions = append(res.Type.Unions, newIntersection(Atom{Kind: KindNull}))
		}
	}

	if p.failed() {
		p.restore(start)
		return ParseResult{Rem: text}
	}

	res.PHPFig = p.phpfig
	end := p.tok().Start
	res.Rem = text[end:]
	res.Fixed = ApplyFixes(text[:end], p.fixes)
	return res
}

// ParseTemplate parses a `@template` payload: NAME ('of'|'as' TYPE)?,
// defaulting the upper bound to mixed.
func ParseTemplate(scope Scope, text string, h Hierarchy) (name string, upperBound Type, ok bool) {
	p := &parser{text: text, cur: newLexCursor(text), scope: scope, h: h, gowide: true, phpfig: true}
	t := p.tok()
	if t.Kind != rawIdent || strings.HasPrefix(t.Text, "$") {
		return "", Type{}, false
	}
	name = p.advance().Text
	upperBound = Single(KindMixed)
	if n := p.tok(); n.Kind == rawIdent && (strings.EqualFold(n.Text, "of") || strings.EqualFold(n.Text, "as")) {
		p.advance()
		ub := p.parseAnyType()
		if !p.failed() {
			upperBound = ub
		}
	}
	return name, upperBound, true
}

func containsNonFigAtoms(t Type) bool {
	for _, in := range t.Unions {
		for _, a := range in.Atoms {
			if a.Kind == KindArrayKey || a.Kind == KindScalar || a.Kind == KindParent {
				return true
			}
		}
	}
	return false
}

// trailingOK implements the trailing-content check of §4.2: after a
// type (or name) is parsed, what follows must be end-of-input, one of
// the delimiters "," ";" ":" "." "{", or preceded by whitespace in the
// source.
func (p *parser) trailingOK() bool {
	t := p.tok()
	if t.Kind == rawEOF || t.SpaceBefore {
		return true
	}
	if t.Kind == rawPunct {
		switch t.Text {
		case ",", "{", ";", ":", ".":
			return true
		}
	}
	return false
}

// anyType := '?' singleType
//          | '$' IDENT 'is' TYPE '?' TYPE ':' TYPE
//          | intersection ('|' intersection)*
func (p *parser) parseAnyType() Type {
	if p.failed() {
		return Type{}
	}
	if p.isPunct("?") {
		p.markNonFig()
		p.advance()
		inner := p.parseSingleType()
		if p.failed() {
			return Type{}
		}
		all := append(append([]Intersection{}, inner.Unions...), newIntersection(Atom{Kind: KindNull}))
		return normalizeUnion(all, p.scope, p.h)
	}
	if p.looksLikeConditional() {
		if t, ok := p.tryParseConditional(); ok {
			return t
		}
	}
	return p.parseUnion()
}

func (p *parser) looksLikeConditional() bool {
	t0 := p.tok()
	if t0.Kind != rawIdent || !strings.HasPrefix(t0.Text, "$") {
		return false
	}
	t1 := p.peek(1)
	return t1.Kind == rawIdent && strings.EqualFold(t1.Text, "is")
}

func (p *parser) tryParseConditional() (Type, bool) {
	s := p.snap()
	p.advance() // $var
	p.advance() // 'is'
	p.parseAnyType()
	if p.failed() || !p.isPunct("?") {
		p.restore(s)
		return Type{}, false
	}
	p.advance()
	then := p.parseAnyType()
	if p.failed() || !p.isPunct(":") {
		p.restore(s)
		return Type{}, false
	}
	p.advance()
	els := p.parseAnyType()
	if p.failed() {
		p.restore(s)
		return Type{}, false
	}
	p.markNonFig()
	all := append(append([]Intersection{}, then.Unions...), els.Unions...)
	return normalizeUnion(all, p.scope, p.h), true
}

// intersection := singleType ('&' singleType)*
func (p *parser) parseIntersection() Type {
	first := p.parseSingleType()
	if p.failed() {
		return Type{}
	}
	terms := []Type{first}
	for p.ampersandIsIntersection() {
		p.advance()
		next := p.parseSingleType()
		if p.failed() {
			return Type{}
		}
		terms = append(terms, next)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	var atoms []Atom
	for _, t := range terms {
		if len(t.Unions) != 1 {
			p.fail("a parenthesized union is not allowed inside an intersection")
			return Type{}
		}
		atoms = append(atoms, t.Unions[0].Atoms...)
	}
	in, err := normalizeIntersection(atoms, p.scope, p.h)
	if err != nil {
		p.fail("%v", err)
		return Type{}
	}
	return Type{Unions: []Intersection{in}}
}

// ampersandIsIntersection resolves the & ambiguity with pass-by-
// reference parameters (§4.2): & is intersection unless followed by
// "...", "=", ",", ")", end-of-stream, or a variable identifier.
func (p *parser) ampersandIsIntersection() bool {
	if !p.isPunct("&") {
		return false
	}
	n := p.peek(1)
	switch {
	case n.Kind == rawEOF, n.Kind == rawEllipsis:
		return false
	case n.Kind == rawPunct && (n.Text == "=" || n.Text == "," || n.Text == ")"):
		return false
	case n.Kind == rawIdent && strings.HasPrefix(n.Text, "$"):
		return false
	}
	return true
}

// union := intersection ('|' intersection)*
func (p *parser) parseUnion() Type {
	first := p.parseIntersection()
	if p.failed() {
		return Type{}
	}
	all := append([]Intersection{}, first.Unions...)
	for p.isPunct("|") {
		p.advance()
		next := p.parseIntersection()
		if p.failed() {
			return Type{}
		}
		all = append(all, next.Unions...)
	}
	return normalizeUnion(all, p.scope, p.h)
}

// singleType := '(' anyType ')' arraySuffix*
//             | basicType arraySuffix*
func (p *parser) parseSingleType() Type {
	if p.failed() {
		return Type{}
	}
	var base Type
	if p.isPunct("(") {
		p.advance()
		base = p.parseAnyType()
		if p.failed() {
			return Type{}
		}
		if !p.isPunct(")") {
			p.fail("expected ')'")
			return Type{}
		}
		p.advance()
	} else {
		base = p.parseBasicType()
		if p.failed() {
			return Type{}
		}
	}

	suffixes := 0
	for p.isPunct("[") && p.peek(1).Kind == rawPunct && p.peek(1).Text == "]" {
		p.advance()
		p.advance()
		suffixes++
	}
	if suffixes > 0 {
		// T[] is shorthand for a typed array; the element type isn't
		// part of the canonical form, same as array<T>.
		return Single(KindArray)
	}
	return base
}

func (p *parser) parseBasicType() Type {
	t := p.tok()
	if t.Kind != rawIdent {
		p.fail("expected a type, found %q", t.Text)
		return Type{}
	}
	if strings.HasPrefix(t.Text, "$") {
		p.advance()
		if !strings.EqualFold(t.Text, "$this") {
			p.fail("unexpected variable %q in type position", t.Text)
			return Type{}
		}
		return p.withConstSuffix(p.resolveStaticLike())
	}
	return p.parseNamedBasicType()
}

func (p *parser) resolveStaticLike() Type {
	if p.scope.Classname != "" {
		return StaticOf(p.scope.Classname)
	}
	return p.unknownFallback()
}

// withConstSuffix consumes a trailing "::CONST" or "::*" (§9: the
// no-constant-name "::*" form is accepted as-is, its intent in the
// source being unclear). Either form makes the actual value opaque,
// so the type becomes the unknown-construct fallback.
func (p *parser) withConstSuffix(base Type) Type {
	if p.tok().Kind != rawDColon {
		return base
	}
	p.advance()
	switch {
	case p.isPunct("*"):
		p.advance()
	case p.tok().Kind == rawIdent:
		p.advance()
	default:
		p.fail("expected a constant name or '*' after '::'")
		return Type{}
	}
	return p.unknownFallback()
}

func (p *parser) parseNamedBasicType() Type {
	tok := p.advance()
	lower := strings.ToLower(tok.Text)

	switch lower {
	case "self":
		return p.withConstSuffix(Single(KindSelf))
	case "parent":
		p.markNonFig()
		return p.withConstSuffix(Single(KindParent))
	case "static":
		return p.withConstSuffix(p.resolveStaticLike())
	case "class-string":
		p.skipGenericArgs()
		return Single(KindString)
	case "int":
		if p.isPunct("<") {
			p.skipGenericArgs()
		}
		return Single(KindInt)
	case "int-mask", "int-mask-of":
		p.skipGenericArgs()
		return Single(KindInt)
	case "key-of", "value-of":
		p.validateContainerArg()
		if p.failed() {
			return Type{}
		}
		return p.unknownFallback()
	case "array":
		switch {
		case p.isPunct("<"):
			p.skipGenericArgs()
		case p.isPunct("{"):
			p.skipBraceShape()
		}
		return Single(KindArray)
	case "object":
		if p.isPunct("{") {
			p.skipBraceShape()
		}
		return Single(KindObject)
	case "iterable":
		if p.isPunct("<") {
			p.skipGenericArgs()
		}
		return Single(KindIterable)
	case "callable":
		return p.parseCallableSignature()
	}

	if kind, ok := keywordAliases[lower]; ok {
		if kind == KindArrayKey || kind == KindScalar {
			p.markNonFig()
		}
		p.maybeFixKeywordSpelling(tok, kind)
		return Single(kind)
	}

	return p.parseQualifiedName(tok)
}

func (p *parser) maybeFixKeywordSpelling(tok rawTok, kind Kind) {
	canon, ok := keywordText[kind]
	if !ok || tok.Text == canon {
		return
	}
	p.addFix(tok.Start, len(tok.Text), canon)
}

func (p *parser) parseQualifiedName(tok rawTok) Type {
	fq, isTemplate := p.scope.Resolve(tok.Text)
	if isTemplate {
		p.markNonFig()
		ub := p.scope.Templates[tok.Text]
		if k, ok := keywordAliases[strings.ToLower(ub)]; ok {
			return p.withConstSuffix(Single(k))
		}
		if ub != "" {
			return p.withConstSuffix(Class(ub))
		}
		return p.withConstSuffix(Single(KindMixed))
	}
	return p.withConstSuffix(Class(fq))
}

// parseCallableSignature parses callable(params): ret. The parameter
// list is skipped opaquely (parameter types aren't part of the
// canonical form); the return type is parsed for well-formedness and
// then discarded the same way.
func (p *parser) parseCallableSignature() Type {
	if !p.isPunct("(") {
		return Single(KindCallable)
	}
	p.markNonFig()
	p.advance()
	depth := 1
	for {
		if p.tok().Kind == rawEOF {
			p.fail("unterminated callable signature")
			return Type{}
		}
		switch {
		case p.isPunct("("):
			depth++
		case p.isPunct(")"):
			depth--
			if depth == 0 {
				p.advance()
				if p.isPunct(":") {
					p.advance()
					p.parseAnyType()
				}
				return Single(KindCallable)
			}
		}
		p.advance()
	}
}

func (p *parser) skipGenericArgs() {
	p.markNonFig()
	if !p.isPunct("<") {
		return
	}
	p.advance()
	depth := 1
	for {
		if p.tok().Kind == rawEOF {
			p.fail("unterminated generic argument list")
			return
		}
		switch {
		case p.isPunct("<"):
			depth++
		case p.isPunct(">"):
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) skipBraceShape() {
	p.markNonFig()
	if !p.isPunct("{") {
		return
	}
	p.advance()
	depth := 1
	for {
		if p.tok().Kind == rawEOF {
			p.fail("unterminated shape")
			return
		}
		switch {
		case p.isPunct("{"):
			depth++
		case p.isPunct("}"):
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// validateContainerArg parses <TYPE> and rejects it unless TYPE is
// assignable to iterable|object; key-of/value-of never compute the
// actual key/value type (that needs container-internal knowledge this
// analyzer doesn't have), so a valid argument still resolves through
// the caller's unknown-construct fallback.
func (p *parser) validateContainerArg() {
	p.markNonFig()
	if !p.isPunct("<") {
		p.fail("expected '<' after key-of/value-of")
		return
	}
	p.advance()
	arg := p.parseAnyType()
	if p.failed() {
		return
	}
	wide := normalizeUnion(
		[]Intersection{newIntersection(Atom{Kind: KindIterable}), newIntersection(Atom{Kind: KindObject})},
		p.scope, p.h,
	)
	if !Compare(wide, arg, p.scope, p.h) {
		p.fail("key-of/value-of argument must be iterable or object")
		return
	}
	if !p.isPunct(">") {
		p.fail("expected '>'")
		return
	}
	p.advance()
}
