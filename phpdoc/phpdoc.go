// Package phpdoc parses a PHP doc comment ("/** ... */") into its tag
// structure without interpreting any tag's payload: that's phptype's
// and walk's job.
package phpdoc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"phpdoctype.dev/phpdoctype/token"
)

// SyntaxError records a malformed doc comment and the position it
// occurred at.
type SyntaxError struct {
	Line, Column int
	Err          error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line:%d:%d: %v", e.Line, e.Column, e.Err)
}

// TagOccurrence is one appearance of a tag within a Block: its
// position, its raw content (everything after the tag name, joined
// across continuation lines by "\n"), and, for a multi-line payload,
// the positions the content's first and last line start at.
type TagOccurrence struct {
	Ptr     token.Pos
	Content string
	CStart  *token.Pos
	CEnd    *token.Pos

	// ContentOffset is the byte offset, from the start of the whole
	// "/** ... */" comment (i.e. from its opening "/"), of Content's
	// first byte. A caller that wants to rewrite a prefix of Content
	// in place (phptype's style fix) needs this to locate the
	// replacement within the original DocComment token's text: line
	// and column alone can't be spliced into a string.
	ContentOffset int
}

// descriptionTag is the pseudo tag name the untagged summary and
// description text preceding the first real tag is filed under.
const descriptionTag = ""

// Block is one parsed doc comment: its own position plus every tag
// occurrence, keyed by tag name (without the leading "@") in the
// order they were first seen.
type Block struct {
	Ptr   token.Pos
	Tags  map[string][]*TagOccurrence
	order []string
}

// Get returns the tag occurrences for name, or nil if the block
// carries none.
func (b *Block) Get(name string) []*TagOccurrence { return b.Tags[name] }

// Has reports whether the block carries at least one occurrence of
// name.
func (b *Block) Has(name string) bool { return len(b.Tags[name]) > 0 }

// Description returns the untagged summary/description text that
// precedes the first tag, if any.
func (b *Block) Description() string {
	occs := b.Tags[descriptionTag]
	if len(occs) == 0 {
		return ""
	}
	return occs[0].Content
}

// commentOpen is the delimiter Parse strips from the front of a doc
// comment's raw text; every position and byte offset it computes is
// corrected by its length to land back in the original token's text.
const commentOpen = "/**"

// Parse reads one doc comment, including its "/**"..."*/" delimiters,
// and splits it into tags. pos is the position of the comment's
// opening "/" in the host file, used to compute each tag's Ptr and
// ContentOffset.
func Parse(pos token.Pos, r io.Reader) (*Block, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, commentOpen)
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	b := &Block{Ptr: pos, Tags: map[string][]*TagOccurrence{}}

	line := pos.Line
	byteOffset := len(commentOpen)
	firstLine := true
	var cur *TagOccurrence
	var curName string
	var curLines []string
	var curStart, curEnd token.Pos

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = strings.TrimRight(strings.Join(curLines, "\n"), " \t\n")
		if len(curLines) > 1 {
			s, e := curStart, curEnd
			cur.CStart, cur.CEnd = &s, &e
		}
		b.appendTag(curName, cur)
		cur = nil
		curLines = nil
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		raw := sc.Text()
		stripped := stripLinePrefix(raw)
		lead := len(raw) - len(stripped)
		col := 1 + lead
		if firstLine {
			// The scanned text has "/**" stripped off its front, so
			// the first physical line's own column undercounts by
			// that many bytes relative to the source. byteOffset
			// itself needs no equivalent correction: it already
			// starts at len(commentOpen), the absolute offset text's
			// first byte sits at.
			col += len(commentOpen)
		}
		contentOffset := byteOffset + lead

		if name, rest, ok := splitTag(stripped); ok {
			flush()
			curName = name
			cur = &TagOccurrence{Ptr: token.Pos{Line: line, Column: col}, ContentOffset: contentOffset + (len(stripped) - len(rest))}
			curStart = cur.Ptr
			curLines = []string{rest}
			curEnd = cur.Ptr
		} else if strings.HasPrefix(stripped, "@") {
			// "@" immediately followed by something that isn't a tag
			// name (a bare "@", a leading digit, a stray space): the
			// author meant to write a tag and didn't.
			return nil, &SyntaxError{Line: line, Column: col, Err: fmt.Errorf("malformed tag %q", stripped)}
		} else if cur != nil {
			curLines = append(curLines, stripped)
			curEnd = token.Pos{Line: line, Column: col}
		} else if strings.TrimSpace(stripped) != "" {
			if curName != descriptionTag || len(curLines) == 0 {
				curName = descriptionTag
				cur = &TagOccurrence{Ptr: token.Pos{Line: line, Column: col}, ContentOffset: contentOffset}
				curStart = cur.Ptr
			}
			curLines = append(curLines, stripped)
			curEnd = token.Pos{Line: line, Column: col}
		}
		line++
		byteOffset += len(raw) + 1 // +1 for the "\n" bufio.Scanner consumed
		firstLine = false
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return b, nil
}

func (b *Block) appendTag(name string, occ *TagOccurrence) {
	if _, ok := b.Tags[name]; !ok {
		b.order = append(b.order, name)
	}
	b.Tags[name] = append(b.Tags[name], occ)
}

// stripLinePrefix removes the leading whitespace and, if present, a
// single "*" plus one following space that PHPDoc convention puts at
// the start of each interior line.
func stripLinePrefix(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i < len(line) && line[i] == '*' {
		i++
		if i < len(line) && line[i] == ' ' {
			i++
		}
	}
	return line[i:]
}

// splitTag recognizes a "@name rest..." line.
func splitTag(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "@") {
		return "", "", false
	}
	body := line[1:]
	i := 0
	for i < len(body) && (isIdentByte(body[i]) || body[i] == '-') {
		i++
	}
	if i == 0 || body[0] >= '0' && body[0] <= '9' {
		return "", "", false
	}
	name = body[:i]
	rest = strings.TrimPrefix(body[i:], " ")
	return name, rest, true
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
