// Package hierarchy implements phptype.Hierarchy: the supertype
// oracle that class-name and keyword comparisons are checked against.
package hierarchy

import (
	"strings"

	"phpdoctype.dev/phpdoctype/phptype"
)

// Library is the built-in supertype table: qualified name (leading
// separator) to its direct supertypes. It only needs to be seeded
// with edges an analysis actually depends on; anything absent simply
// has no known supertypes beyond object.
var Library = map[string][]string{
	`\Traversable`:              nil,
	`\Iterator`:                 {`\Traversable`},
	`\IteratorAggregate`:        {`\Traversable`},
	`\ArrayAccess`:              nil,
	`\Countable`:                nil,
	`\Stringable`:               nil,
	`\ArrayIterator`:            {`\Iterator`, `\ArrayAccess`, `\Countable`},
	`\ArrayObject`:              {`\IteratorAggregate`, `\ArrayAccess`, `\Countable`},
	`\SplStack`:                 {`\SplDoublyLinkedList`},
	`\SplQueue`:                 {`\SplDoublyLinkedList`},
	`\SplDoublyLinkedList`:      {`\Iterator`, `\ArrayAccess`, `\Countable`},
	`\SplObjectStorage`:         {`\Countable`, `\Iterator`, `\ArrayAccess`},
	`\SplFileObject`:            {`\SplFileInfo`, `\Iterator`},
	`\SplFileInfo`:              nil,
	`\Throwable`:                nil,
	`\Exception`:                {`\Throwable`, `\Stringable`},
	`\Error`:                    {`\Throwable`, `\Stringable`},
	`\TypeError`:                {`\Error`},
	`\ValueError`:               {`\Error`},
	`\ArgumentCountError`:       {`\TypeError`},
	`\RuntimeException`:         {`\Exception`},
	`\LogicException`:           {`\Exception`},
	`\InvalidArgumentException`: {`\LogicException`},
	`\OutOfRangeException`:      {`\LogicException`},
	`\OutOfBoundsException`:     {`\RuntimeException`},
	`\DateTimeInterface`:        nil,
	`\DateTime`:                 {`\DateTimeInterface`},
	`\DateTimeImmutable`:        {`\DateTimeInterface`},
	`\Generator`:                {`\Iterator`},
	`\WeakMap`:                  {`\Countable`, `\ArrayAccess`, `\IteratorAggregate`},
	`\UnitEnum`:                 nil,
	`\BackedEnum`:               {`\UnitEnum`},
	`\JsonSerializable`:         nil,
}

// Oracle is a phptype.Hierarchy backed by the built-in Library and a
// dynamic Artifacts table collected by the declaration walker's first
// pass, over one file or over several files merged together. Both tables are read-only after construction;
// an Oracle is safe to share across concurrently processed files.
type Oracle struct {
	library   map[string][]string
	artifacts map[string]phptype.Artifact
}

// NewOracle builds an Oracle over the built-in Library plus the
// artifacts collected by the walker's first pass (for one file, or
// merged across several).
func NewOracle(artifacts map[string]phptype.Artifact) *Oracle {
	return &Oracle{library: Library, artifacts: artifacts}
}

// SuperTypes implements phptype.Hierarchy, per §4.3: structural
// primitive rules, self/parent/static/static(X) resolved through the
// scope triad, and transitive Library-then-Artifacts class walking.
// The queried name is never included in the result.
func (o *Oracle) SuperTypes(scope phptype.Scope, name string) []string {
	switch name {
	case "int", "string":
		return []string{"array-key", "scalar"}
	case "array-key", "bool", "float":
		return []string{"scalar"}
	case "callable-string":
		return []string{"callable", "string", "array-key", "scalar"}
	case "array":
		return []string{"iterable"}
	case "self":
		return o.classAndSupers(scope.Classname)
	case "parent":
		return o.classAndSupers(scope.Parentname)
	}
	if strings.HasPrefix(name, "static(") && strings.HasSuffix(name, ")") {
		fq := name[len("static(") : len(name)-1]
		out := []string{"static", "self", "parent", "object"}
		out = append(out, o.classSupers(fq)...)
		return dedupe(out)
	}
	if strings.HasPrefix(name, "\\") {
		out := []string{"object"}
		out = append(out, o.classSupers(name)...)
		return dedupe(out)
	}
	return nil
}

// classAndSupers returns fq itself plus its supertypes, used for
// self/parent which stand for a concrete class identity as well as
// everything above it.
func (o *Oracle) classAndSupers(fq string) []string {
	if fq == "" {
		return nil
	}
	out := []string{fq, "object"}
	out = append(out, o.classSupers(fq)...)
	return dedupe(out)
}

// classSupers walks Library then Artifacts transitively from fq,
// excluding fq itself, with a visited set guarding against cycles a
// malformed source file might declare.
func (o *Oracle) classSupers(fq string) []string {
	visited := map[string]bool{fq: true}
	var out []string
	queue := o.directSupers(fq)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		out = append(out, next)
		queue = append(queue, o.directSupers(next)...)
	}
	return out
}

func (o *Oracle) directSupers(fq string) []string {
	if sup, ok := o.library[fq]; ok {
		return sup
	}
	if a, ok := o.artifacts[fq]; ok {
		var out []string
		if a.Extends != "" {
			out = append(out, a.Extends)
		}
		out = append(out, a.Implements...)
		return out
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Merge folds artifacts collected from one file's first pass into a
// fresh map suitable for NewOracle, keyed by fully-qualified name.
func Merge(artifacts map[string]phptype.Artifact) map[string]phptype.Artifact {
	out := make(map[string]phptype.Artifact, len(artifacts))
	for k, v := range artifacts {
		out[k] = v
	}
	return out
}
