// Package phptype implements the PHPDoc type-expression grammar: a
// lexer-less, hand-rolled recursive-descent parser that normalizes a
// type expression (either a native PHP type hint or a PHPDoc @-tag
// payload) into a canonical union-of-intersections string, proposes a
// style-corrected rewrite of the original text, and flags whether the
// expression stays within the published PHP-FIG PHPDoc subset.
//
// Everything in this package is a pure function of its inputs: a
// parser is constructed, used once, and discarded. There is no shared
// mutable state between calls.
package phptype
