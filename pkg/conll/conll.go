// Package conll reads dependency trees in the seven-column text format:
//
//	id  form  lemma  tag  feats  head  label
//
// Columns are separated by tabs or spaces. A blank line ends a sentence.
// Lines starting with '#' are comments, and CoNLL-U multiword ranges ("3-4")
// and empty nodes ("5.1") are skipped. Columns beyond the seventh are ignored.
package conll

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/matzehuels/treeml/pkg/errors"
)

// NumFields is the minimum number of columns per token line.
const NumFields = 7

// Empty is the placeholder for an unset column.
const Empty = "_"

const maxLineSize = 1 << 20

// Row is one parsed token line.
type Row struct {
	ID    int
	Form  string
	Lemma string
	Tag   string
	Feats string
	Head  int
	Label string
	Line  int // 1-based source line
}

// Sentence is the ordered token rows of one sentence. Row i has ID i+1.
type Sentence []Row

// Reader reads sentences from a line-oriented stream.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next sentence. It returns io.EOF once the input holds no
// further tokens. A malformed line yields a FormatError; the rest of that
// sentence is consumed so a caller may continue with the following one.
func (r *Reader) Next() (Sentence, error) {
	var (
		sent     Sentence
		firstErr error
	)
	for r.sc.Scan() {
		r.line++
		line := r.sc.Text()
		if strings.TrimSpace(line) == "" {
			if len(sent) == 0 && firstErr == nil {
				continue
			}
			break
		}
		if strings.HasPrefix(line, "#") || firstErr != nil {
			continue
		}

		row, skip, err := ParseLine(line, r.line)
		if err != nil {
			firstErr = err
			continue
		}
		if !skip {
			sent = append(sent, row)
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read line %d", r.line+1)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if len(sent) == 0 {
		return nil, io.EOF
	}
	if err := sent.Validate(); err != nil {
		return nil, err
	}
	return sent, nil
}

// All returns the remaining sentences as a sequence. Iteration stops after
// the first error is yielded.
func (r *Reader) All() iter.Seq2[Sentence, error] {
	return func(yield func(Sentence, error) bool) {
		for {
			sent, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(sent, err) || err != nil {
				return
			}
		}
	}
}

// ParseLine parses one token line. skip is true for CoNLL-U multiword and
// empty-node lines, which carry no tree structure.
func ParseLine(line string, lineNo int) (row Row, skip bool, err error) {
	fields := strings.Fields(line)
	if len(fields) < NumFields {
		return row, false, errors.FormatError(lineNo, "expected %d columns, got %d", NumFields, len(fields))
	}
	if strings.ContainsAny(fields[0][1:], "-.") {
		return row, true, nil
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return row, false, errors.FormatError(lineNo, "id %q is not a positive integer", fields[0])
	}
	head, err := strconv.Atoi(fields[5])
	if err != nil || head < 0 {
		return row, false, errors.FormatError(lineNo, "head %q is not a non-negative integer", fields[5])
	}

	return Row{
		ID:    id,
		Form:  fields[1],
		Lemma: fields[2],
		Tag:   fields[3],
		Feats: fields[4],
		Head:  head,
		Label: fields[6],
		Line:  lineNo,
	}, false, nil
}

// Validate checks that ids run 1..n in order, every head names a token of
// the sentence (or 0 for the root) other than the token itself, and every
// token reaches the root.
func (s Sentence) Validate() error {
	for i, row := range s {
		if row.ID != i+1 {
			return errors.FormatError(row.Line, "id %d out of sequence, want %d", row.ID, i+1)
		}
		if row.Head > len(s) {
			return errors.FormatError(row.Line, "head %d outside sentence of %d tokens", row.Head, len(s))
		}
		if row.Head == row.ID {
			return errors.FormatError(row.Line, "token %d is its own head", row.ID)
		}
	}

	// 0 unvisited, 1 on the current path, 2 reaches the root.
	state := make([]uint8, len(s)+1)
	state[0] = 2
	for i := range s {
		id := i + 1
		for state[id] == 0 {
			state[id] = 1
			id = s[id-1].Head
		}
		if state[id] == 1 {
			return errors.FormatError(s[i].Line, "token %d is not connected to the root", s[i].ID)
		}
		for id = i + 1; state[id] == 1; id = s[id-1].Head {
			state[id] = 2
		}
	}
	return nil
}
