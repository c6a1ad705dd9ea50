package token_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"phpdoctype.dev/phpdoctype/token"
)

func pos(posStr string) token.Pos {
	var pos token.Pos
	fmt.Sscanf(posStr, "%d:%d", &pos.Line, &pos.Column)
	return pos
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{{
		"only HTML",
		`doesn't
actually have to be a <html>
<?phpnamespace <?php`,
		[]token.Token{
			{token.InlineHTML, "doesn't\nactually have to be a <html>\n<?phpnamespace <?php", pos("1:1")},
			{token.EOF, "", pos("3:21")},
		},
	}, {
		"basic PHP",
		`<html> <?php

   echo 'ahoj'; print 42?>
<?php endif`,
		[]token.Token{
			{token.InlineHTML, "<html> ", pos("1:1")},
			{token.OpenTag, "<?php", pos("1:8")},
			{token.Whitespace, "\n\n   ", pos("1:13")},
			{token.Echo, "echo", pos("3:4")},
			{token.Whitespace, " ", pos("3:8")},
			{token.String, `'ahoj'`, pos("3:9")},
			{token.Semicolon, ";", pos("3:15")},
			{token.Whitespace, " ", pos("3:16")},
			{token.Print, "print", pos("3:17")},
			{token.Whitespace, " ", pos("3:22")},
			{token.Int, "42", pos("3:23")},
			{token.CloseTag, "?>", pos("3:25")},
			{token.InlineHTML, "\n", pos("3:27")},
			{token.OpenTag, "<?php", pos("4:1")},
			{token.Whitespace, " ", pos("4:6")},
			{token.Ident, "endif", pos("4:7")},
			{token.EOF, "", pos("4:12")},
		},
	}, {
		"doc comment vs plain comment",
		"<?php /** doc */ /**not doc*/ /* block */",
		[]token.Token{
			{token.OpenTag, "<?php", pos("1:1")},
			{token.Whitespace, " ", pos("1:6")},
			{token.DocComment, "/** doc */", pos("1:7")},
			{token.Whitespace, " ", pos("1:17")},
			{token.Comment, "/**not doc*/", pos("1:18")},
			{token.Whitespace, " ", pos("1:30")},
			{token.Comment, "/* block */", pos("1:31")},
			{token.EOF, "", pos("1:42")},
		},
	}, {
		"attribute group with nested brackets",
		`<?php #[Attr(['a', 'b'])] class C {}`,
		[]token.Token{
			{token.OpenTag, "<?php", pos("1:1")},
			{token.Whitespace, " ", pos("1:6")},
			{token.Attribute, `#[Attr(['a', 'b'])]`, pos("1:7")},
			{token.Whitespace, " ", pos("1:26")},
			{token.Class, "class", pos("1:27")},
			{token.Whitespace, " ", pos("1:32")},
			{token.Ident, "C", pos("1:33")},
			{token.Whitespace, " ", pos("1:34")},
			{token.Lbrace, "{", pos("1:35")},
			{token.Rbrace, "}", pos("1:36")},
			{token.EOF, "", pos("1:37")},
		},
	}, {
		"var keyword vs variable",
		`<?php class C { var $x; }`,
		[]token.Token{
			{token.OpenTag, "<?php", pos("1:1")},
			{token.Whitespace, " ", pos("1:6")},
			{token.Class, "class", pos("1:7")},
			{token.Whitespace, " ", pos("1:12")},
			{token.Ident, "C", pos("1:13")},
			{token.Whitespace, " ", pos("1:14")},
			{token.Lbrace, "{", pos("1:15")},
			{token.Whitespace, " ", pos("1:16")},
			{token.Var_, "var", pos("1:17")},
			{token.Whitespace, " ", pos("1:20")},
			{token.Var, "$x", pos("1:21")},
			{token.Semicolon, ";", pos("1:23")},
			{token.Whitespace, " ", pos("1:24")},
			{token.Rbrace, "}", pos("1:25")},
			{token.EOF, "", pos("1:26")},
		},
	}, {
		"nullable and pass-by-ref",
		`<?php function f(?int $x, &$y): ?string {}`,
		[]token.Token{
			{token.OpenTag, "<?php", pos("1:1")},
			{token.Whitespace, " ", pos("1:6")},
			{token.Function, "function", pos("1:7")},
			{token.Whitespace, " ", pos("1:15")},
			{token.Ident, "f", pos("1:16")},
			{token.Lparen, "(", pos("1:17")},
			{token.Qmark, "?", pos("1:18")},
			{token.Ident, "int", pos("1:19")},
			{token.Whitespace, " ", pos("1:22")},
			{token.Var, "$x", pos("1:23")},
			{token.Comma, ",", pos("1:25")},
			{token.Whitespace, " ", pos("1:26")},
			{token.BitAnd, "&", pos("1:27")},
			{token.Var, "$y", pos("1:28")},
			{token.Rparen, ")", pos("1:30")},
			{token.Colon, ":", pos("1:31")},
			{token.Whitespace, " ", pos("1:32")},
			{token.Qmark, "?", pos("1:33")},
			{token.Ident, "string", pos("1:34")},
			{token.Whitespace, " ", pos("1:40")},
			{token.Lbrace, "{", pos("1:41")},
			{token.Rbrace, "}", pos("1:42")},
			{token.EOF, "", pos("1:43")},
		},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			scan := token.NewScanner(strings.NewReader(test.input))
			var got []token.Token
			for {
				tok := scan.Next()
				got = append(got, tok)
				if tok.Type == token.EOF {
					break
				}
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	scan := token.NewScanner(strings.NewReader(`<?php 'oops`))
	var last token.Token
	for {
		last = scan.Next()
		if last.Type == token.EOF {
			break
		}
	}
	if scan.Err() == nil {
		t.Fatal("want scan error for unterminated string")
	}
}

func TestTypeIsKeyword(t *testing.T) {
	if !token.Class.IsKeyword() {
		t.Error("Class should be a keyword")
	}
	if token.Lbrace.IsKeyword() {
		t.Error("Lbrace should not be a keyword")
	}
	if token.Ident.IsKeyword() {
		t.Error("Ident should not be a keyword")
	}
}
