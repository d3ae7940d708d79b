package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/treeml/pkg/conll"
	"github.com/matzehuels/treeml/pkg/dependency"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/observability"
	"github.com/matzehuels/treeml/pkg/penn"
	"github.com/matzehuels/treeml/pkg/render/nodelink"
)

// preview draws the selected sentence as a Graphviz node-link SVG.
func preview(ctx context.Context, input []byte, opts *Options) (*Result, error) {
	var (
		st    Stats
		dot   string
		found bool
	)

	start := time.Now()
	next := sentenceSource(input, opts)
	for !found {
		src, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if opts.SkipInvalid && skippable(err) {
				st.Skipped++
				continue
			}
			return nil, err
		}
		st.Sentences++
		if st.Sentences+st.Skipped == opts.Sentence {
			dot, st.Tokens = src()
			found = true
		}
	}
	st.ParseTime = time.Since(start)
	observability.Pipeline().OnParse(ctx, opts.Kind, st.Sentences, st.ParseTime, nil)
	if !found {
		return nil, errors.ConfigError("sentence %d not found (document has %d)", opts.Sentence, st.Sentences+st.Skipped)
	}

	start = time.Now()
	svg, err := nodelink.RenderSVG(ctx, dot)
	st.WriteTime = time.Since(start)
	observability.Pipeline().OnWrite(ctx, opts.Kind, len(svg), st.WriteTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	opts.Logger.Debug("rendered preview", "sentence", opts.Sentence, "bytes", len(svg))
	return &Result{Output: svg, Stats: st}, nil
}

// sentenceSource returns an iterator over the sentences of input. Each
// sentence is returned as a function producing its DOT source and token
// count, so only the selected one is converted.
func sentenceSource(input []byte, opts *Options) func() (func() (string, int), error) {
	nl := nodelink.Options{Detailed: opts.Detailed}
	if opts.Kind == KindDependency {
		rd := conll.NewReader(bytes.NewReader(input))
		return func() (func() (string, int), error) {
			sent, err := rd.Next()
			if err != nil {
				return nil, err
			}
			return func() (string, int) {
				g := dependency.Build(sent)
				return nodelink.DependencyDOT(g, nl), g.Len()
			}, nil
		}
	}

	var popts []penn.Option
	if opts.LayoutConfig().KeepIndices {
		popts = append(popts, penn.WithKeepIndices())
	}
	rd := penn.NewReader(bytes.NewReader(input), popts...)
	return func() (func() (string, int), error) {
		t, err := rd.Next()
		if err != nil {
			return nil, err
		}
		return func() (string, int) {
			return nodelink.ConstituencyDOT(t, nl), len(t.Terminals)
		}, nil
	}
}
