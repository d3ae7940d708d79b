package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/treeml/pkg/conll"
	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/dependency"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/graphml"
	"github.com/matzehuels/treeml/pkg/layout"
	"github.com/matzehuels/treeml/pkg/observability"
	"github.com/matzehuels/treeml/pkg/penn"
)

// skippable reports whether err concerns a single sentence, after which the
// readers are positioned at the next one.
func skippable(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidFormat) || errors.Is(err, errors.ErrCodeUnbalancedBrackets)
}

// document holds the state shared by both conversion loops.
type document struct {
	ctx   context.Context
	opts  *Options
	lctx  *layout.Context
	buf   bytes.Buffer
	w     *graphml.Writer
	stats Stats
}

func newDocument(ctx context.Context, opts *Options) *document {
	cfg := opts.LayoutConfig()
	d := &document{
		ctx:  ctx,
		opts: opts,
		lctx: layout.NewContext(cfg, opts.Measurer),
	}
	d.w = graphml.NewWriter(&d.buf, cfg)
	return d
}

// parsed handles the error of one read. It returns done when the loop must
// stop, with a non-nil err when the document failed.
func (d *document) parsed(err error) (skip, done bool, _ error) {
	switch {
	case err == nil:
		return false, false, nil
	case err == io.EOF:
		return false, true, nil
	case d.opts.SkipInvalid && skippable(err):
		d.stats.Skipped++
		d.opts.Logger.Warn("skipping sentence",
			"sentence", d.stats.Sentences+d.stats.Skipped,
			"error", errors.UserMessage(err))
		return true, false, nil
	}
	observability.Pipeline().OnParse(d.ctx, d.opts.Kind, d.stats.Sentences, d.stats.ParseTime, err)
	return false, true, err
}

func (d *document) finish() (*Result, error) {
	hooks := observability.Pipeline()
	hooks.OnParse(d.ctx, d.opts.Kind, d.stats.Sentences, d.stats.ParseTime, nil)
	hooks.OnLayout(d.ctx, d.opts.Kind, d.stats.Sentences, d.stats.Shifts, d.stats.LayoutTime)

	start := time.Now()
	err := d.w.Close()
	d.stats.WriteTime += time.Since(start)
	hooks.OnWrite(d.ctx, d.opts.Kind, d.buf.Len(), d.stats.WriteTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write graphml")
	}
	d.stats.Nodes, d.stats.Edges = d.w.Counts()
	return &Result{Output: d.buf.Bytes(), Stats: d.stats}, nil
}

func convertDependency(ctx context.Context, input []byte, opts *Options) (*Result, error) {
	d := newDocument(ctx, opts)
	rd := conll.NewReader(bytes.NewReader(input))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		sent, err := rd.Next()
		d.stats.ParseTime += time.Since(start)
		skip, done, err := d.parsed(err)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if skip {
			continue
		}

		g := dependency.Build(sent)
		start = time.Now()
		dependency.Layout(d.lctx, g)
		d.stats.LayoutTime += time.Since(start)

		d.stats.Sentences++
		d.stats.Tokens += g.Len()
		d.stats.Arcs += len(g.Arcs)
		d.stats.MaxTier = max(d.stats.MaxTier, g.MaxTier)
		d.stats.Shifts += len(g.Shifts)
		logDependency(opts, d.stats.Sentences+d.stats.Skipped, g)

		start = time.Now()
		err = d.w.WriteDependency(g)
		d.stats.WriteTime += time.Since(start)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write graphml")
		}
	}
	return d.finish()
}

func logDependency(opts *Options, n int, g *dependency.Graph) {
	tiers := make([]int, len(g.Arcs))
	for i, a := range g.Arcs {
		tiers[i] = a.Tier
	}
	opts.Logger.Debug("laid out sentence",
		"sentence", n,
		"tokens", g.Len(),
		"arcs", len(g.Arcs),
		"max_tier", g.MaxTier,
		"tiers", tiers)
	for _, s := range g.Shifts {
		a := g.Arcs[s.Arc]
		opts.Logger.Debug("label overflow",
			"sentence", n,
			"arc", a.Label,
			"head", a.Head,
			"dep", a.Dep,
			"from", s.From,
			"by", s.By)
	}
}

func convertConstituency(ctx context.Context, input []byte, opts *Options) (*Result, error) {
	d := newDocument(ctx, opts)
	var popts []penn.Option
	if opts.LayoutConfig().KeepIndices {
		popts = append(popts, penn.WithKeepIndices())
	}
	rd := penn.NewReader(bytes.NewReader(input), popts...)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		t, err := rd.Next()
		d.stats.ParseTime += time.Since(start)
		skip, done, err := d.parsed(err)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if skip {
			continue
		}

		start = time.Now()
		constituency.Layout(d.lctx, t)
		d.stats.LayoutTime += time.Since(start)

		d.stats.Sentences++
		d.stats.Tokens += len(t.Terminals)
		opts.Logger.Debug("laid out tree",
			"sentence", d.stats.Sentences+d.stats.Skipped,
			"tokens", len(t.Terminals),
			"nodes", t.Len())

		start = time.Now()
		err = d.w.WriteConstituency(t)
		d.stats.WriteTime += time.Since(start)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write graphml")
		}
	}
	return d.finish()
}
