// Package format applies accepted phpdoctype fixes back onto source
// text: it takes the Edits a [diag.Collector] recorded and splices
// their replacement text into the tokens they target.
package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/token"
)

// ApplyEdits rewrites src by splicing every accepted Edit into the
// token it targets. An Edit's Pos always names a real scanner token's
// start (a DocComment token, most often, since the scanner emits an
// entire "/** ... */" as one token); Offset and OldLen locate the
// byte range within that token's own Text the edit replaces, so a fix
// interior to a doc comment's tag content can be applied without
// reprinting the comment.
func ApplyEdits(filename string, src []byte, edits []diag.Edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	byPos := map[token.Pos][]diag.Edit{}
	for _, e := range edits {
		byPos[e.Pos] = append(byPos[e.Pos], e)
	}
	for pos, group := range byPos {
		sort.Slice(group, func(i, j int) bool { return group[i].Offset < group[j].Offset })
		for i := 1; i < len(group); i++ {
			if group[i].Offset < group[i-1].Offset+group[i-1].OldLen {
				return nil, fmt.Errorf("%s: two fixes overlap within the same token at %v; rerun after applying one", filename, pos)
			}
		}
		byPos[pos] = group
	}

	scan := token.NewScanner(bytes.NewReader(src))
	w := &stickyErrWriter{w: &bytes.Buffer{}}
	matched := 0
Loop:
	for {
		tok := scan.Next()
		if tok.Type == token.EOF {
			break Loop
		}
		group, ok := byPos[tok.Pos]
		if !ok {
			io.WriteString(w, tok.Text)
			continue
		}
		matched++
		io.WriteString(w, spliceToken(tok.Text, group))
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	if w.err != nil {
		return nil, w.err
	}
	if matched != len(byPos) {
		return nil, fmt.Errorf("%s: %d fix(es) targeted a position no token starts at", filename, len(byPos)-matched)
	}
	return w.w.(*bytes.Buffer).Bytes(), nil
}

// spliceToken applies a group of non-overlapping, offset-ascending
// edits to text, replacing text[Offset:Offset+OldLen] with each
// edit's Text in turn.
func spliceToken(text string, group []diag.Edit) string {
	var sb bytes.Buffer
	pos := 0
	for _, e := range group {
		if e.Offset < pos || e.Offset+e.OldLen > len(text) {
			continue
		}
		sb.WriteString(text[pos:e.Offset])
		sb.WriteString(e.Text)
		pos = e.Offset + e.OldLen
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

type stickyErrWriter struct {
	w   io.Writer
	err error
}

func (w *stickyErrWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	return n, w.err
}
