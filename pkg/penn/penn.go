// Package penn reads Penn Treebank bracketed trees.
//
// Input is a stream of trees such as
//
//	( (S (NP (NNP John)) (VP (VBD left))) )
//
// Tokens are '(', ')' and runs of non-space characters; line breaks and blank
// lines carry no meaning. The outermost bracket becomes the tree's implicit
// wrapper; an optional TOP or ROOT label right after it is absorbed. Trees
// are read lazily, one per call to [Reader.Next].
package penn

import (
	"bufio"
	"io"
	"iter"
	"strings"
	"unicode"

	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/errors"
)

const maxLineSize = 1 << 20

type token struct {
	text string
	line int
}

// Option configures a Reader.
type Option func(*Reader)

// WithKeepIndices keeps numeric co-indices on tags ("NP-SBJ-1" becomes
// "NP-1" rather than "NP").
func WithKeepIndices() Option {
	return func(r *Reader) { r.keepIndices = true }
}

// Reader reads bracketed trees from a stream.
type Reader struct {
	sc          *bufio.Scanner
	line        int
	pending     []token
	trees       int
	keepIndices bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	rd := &Reader{sc: sc}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next returns the next tree, or io.EOF when no '(' remains. A tree that is
// still open at end of input yields an UnbalancedBrackets error. After any
// other malformed tree the rest of it is consumed, so a caller may continue
// with the following one.
func (r *Reader) Next() (*constituency.Tree, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	switch tok.text {
	case "(":
	case ")":
		return nil, errors.New(errors.ErrCodeUnbalancedBrackets, "line %d: unexpected ')' outside a tree", tok.line)
	default:
		return nil, errors.FormatError(tok.line, "unexpected %q outside a tree", tok.text)
	}

	r.trees++
	t := constituency.New()
	cur := constituency.Wrapper
	depth := 1
	fail := func(err error, open int) (*constituency.Tree, error) {
		r.discard(open)
		return nil, err
	}

	for first := true; depth > 0; first = false {
		tok, err := r.next()
		if err == io.EOF {
			return nil, errors.UnbalancedBrackets(r.trees, depth)
		}
		if err != nil {
			return nil, err
		}

		switch tok.text {
		case "(":
			if t.Node(cur).Form != "" {
				return fail(errors.FormatError(tok.line, "constituent %q has both a word and children", t.Node(cur).Tag), depth+1)
			}
			tag, err := r.next()
			if err == io.EOF {
				return nil, errors.UnbalancedBrackets(r.trees, depth+1)
			}
			if err != nil {
				return nil, err
			}
			switch tag.text {
			case "(":
				return fail(errors.FormatError(tag.line, "expected a tag after '(', got %q", tag.text), depth+2)
			case ")":
				return fail(errors.FormatError(tag.line, "expected a tag after '(', got %q", tag.text), depth)
			}
			depth++
			cur = t.Add(cur, NormalizeTag(tag.text, r.keepIndices))

		case ")":
			n := t.Node(cur)
			if n.Form == "" && len(n.Children) == 0 {
				return fail(errors.FormatError(tok.line, "empty constituent %q", n.Tag), depth-1)
			}
			depth--
			if depth > 0 {
				cur = n.Parent
			}

		default:
			if first {
				if isRootLabel(tok.text) {
					continue
				}
				// "(S (NP ...) ...)": the outer bracket is itself the top phrase.
				cur = t.Add(constituency.Wrapper, NormalizeTag(tok.text, r.keepIndices))
				continue
			}
			n := t.Node(cur)
			if cur == constituency.Wrapper {
				return fail(errors.FormatError(tok.line, "word %q outside any constituent", tok.text), depth)
			}
			if n.Form != "" || len(n.Children) > 0 {
				return fail(errors.FormatError(tok.line, "unexpected word %q in constituent %q", tok.text, n.Tag), depth)
			}
			t.SetForm(cur, tok.text)
		}
	}
	return t, nil
}

// All returns the remaining trees as a sequence. Iteration stops after the
// first error is yielded.
func (r *Reader) All() iter.Seq2[*constituency.Tree, error] {
	return func(yield func(*constituency.Tree, error) bool) {
		for {
			t, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(t, err) || err != nil {
				return
			}
		}
	}
}

// discard consumes tokens until open brackets are closed or input ends.
func (r *Reader) discard(open int) {
	for open > 0 {
		tok, err := r.next()
		if err != nil {
			return
		}
		switch tok.text {
		case "(":
			open++
		case ")":
			open--
		}
	}
}

func (r *Reader) next() (token, error) {
	for len(r.pending) == 0 {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return token{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read line %d", r.line+1)
			}
			return token{}, io.EOF
		}
		r.line++
		r.pending = tokenize(r.sc.Text(), r.line, r.pending)
	}
	tok := r.pending[0]
	r.pending = r.pending[1:]
	return tok, nil
}

func tokenize(line string, lineNo int, dst []token) []token {
	start := -1
	flush := func(end int) {
		if start >= 0 {
			dst = append(dst, token{text: line[start:end], line: lineNo})
			start = -1
		}
	}
	for i, c := range line {
		switch {
		case c == '(' || c == ')':
			flush(i)
			dst = append(dst, token{text: string(c), line: lineNo})
		case unicode.IsSpace(c):
			flush(i)
		case start < 0:
			start = i
		}
	}
	flush(len(line))
	return dst
}

func isRootLabel(s string) bool {
	return s == "TOP" || s == "ROOT"
}

// NormalizeTag strips hyphenated function tags and co-indices from a tag.
// With keepIndices, numeric parts survive: "NP-SBJ-1" gives "NP-1".
// Tags starting with '-' ("-NONE-", "-LRB-") are returned unchanged.
func NormalizeTag(tag string, keepIndices bool) string {
	if strings.HasPrefix(tag, "-") {
		return tag
	}
	parts := strings.Split(tag, "-")
	if !keepIndices {
		return parts[0]
	}
	kept := []string{parts[0]}
	for _, p := range parts[1:] {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}
