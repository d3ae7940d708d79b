// Package pipeline provides the conversion pipeline shared by the CLI and the
// HTTP server.
//
// A document is converted sentence by sentence: parse, lay out, write. The
// layout context carries the running vertical offset and the element id
// counter from one sentence to the next, so the whole document ends up as a
// single GraphML graph.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	out, stats, err := runner.Dependency(ctx, file, pipeline.Options{
//	    Tags: pipeline.Bool(true),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("parse.graphml", out, 0o644)
//
// Results are cached by the hash of the input and every option that changes
// the output. Pass [cache.NewNullCache] to disable caching.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeml/pkg/cache"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/layout"
	"github.com/matzehuels/treeml/pkg/text"
)

// Input kinds.
const (
	KindDependency   = "dependency"
	KindConstituency = "constituency"
)

// Output formats.
const (
	FormatGraphML = "graphml"
	FormatSVG     = "svg"
)

// Defaults.
const (
	DefaultFormat = FormatGraphML
)

var (
	ValidKinds   = []string{KindDependency, KindConstituency}
	ValidFormats = []string{FormatGraphML, FormatSVG}
)

// Options configures one conversion.
//
// Layout settings are layered: built-in defaults for the kind, then the TOML
// file at ConfigPath, then the explicit overrides below. A nil override keeps
// the value of the layer beneath it.
type Options struct {
	Kind   string `json:"kind"`
	Format string `json:"format,omitempty"`

	ConfigPath string `json:"-"`

	HGap          *float64 `json:"h_gap,omitempty"`
	VGap          *float64 `json:"v_gap,omitempty"`
	Tags          *bool    `json:"tags,omitempty"`
	Smooth        *bool    `json:"smooth,omitempty"`
	Indices       *bool    `json:"indices,omitempty"`
	KeepIndices   *bool    `json:"keep_indices,omitempty"`
	LevelSiblings *bool    `json:"level_siblings,omitempty"`

	// SkipInvalid logs malformed sentences and continues with the next one
	// instead of failing the document.
	SkipInvalid bool `json:"skip_invalid,omitempty"`

	// Sentence selects the 1-based sentence drawn by the svg format.
	// Zero means the first.
	Sentence int `json:"sentence,omitempty"`
	// Detailed adds lemmas and tags to svg node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses cached results. The fresh result is still stored.
	Refresh bool `json:"-"`

	Measurer text.Measurer `json:"-"`
	Logger   *log.Logger   `json:"-"`

	config    layout.Config
	validated bool
}

// Stats summarizes a conversion.
type Stats struct {
	Sentences int `json:"sentences"`
	Skipped   int `json:"skipped,omitempty"`
	Tokens    int `json:"tokens"`
	Arcs      int `json:"arcs,omitempty"`
	MaxTier   int `json:"max_tier,omitempty"`
	Shifts    int `json:"shifts,omitempty"`
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`

	ParseTime  time.Duration `json:"parse_ns"`
	LayoutTime time.Duration `json:"layout_ns"`
	WriteTime  time.Duration `json:"write_ns"`

	CacheHit bool `json:"cache_hit,omitempty"`
}

// Bool returns a pointer to v, for the override fields of [Options].
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for the override fields of [Options].
func Float(v float64) *float64 { return &v }

// ValidateKind returns a ConfigError for an unknown input kind.
func ValidateKind(kind string) error {
	if !slices.Contains(ValidKinds, kind) {
		return errors.ConfigError("invalid kind %q (valid: %v)", kind, ValidKinds)
	}
	return nil
}

// ValidateFormat returns a ConfigError for an unknown output format.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.ConfigError("invalid format %q (valid: %v)", format, ValidFormats)
	}
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Sentence <= 0 {
		o.Sentence = 1
	}
	if o.Measurer == nil {
		o.Measurer = text.NewFace()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults sets defaults, resolves the layout configuration and
// validates everything. It is safe to call more than once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := o.checkKindOptions(); err != nil {
		return err
	}
	cfg, err := o.resolveConfig()
	if err != nil {
		return err
	}
	o.config = cfg
	o.validated = true
	return nil
}

// checkKindOptions rejects options that only the other kind of tree can
// honor. Only an explicit true is rejected; false matches the default.
func (o *Options) checkKindOptions() error {
	var name string
	switch {
	case o.Kind == KindDependency && isTrue(o.KeepIndices):
		name = "keep_indices"
	case o.Kind == KindDependency && isTrue(o.LevelSiblings):
		name = "level_siblings"
	case o.Kind == KindConstituency && isTrue(o.Indices):
		name = "indices"
	default:
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "%s is not supported for %s trees", name, o.Kind)
}

func isTrue(v *bool) bool { return v != nil && *v }

func (o *Options) resolveConfig() (layout.Config, error) {
	cfg := layout.DefaultDependency()
	if o.Kind == KindConstituency {
		cfg = layout.DefaultConstituency()
	}
	if o.ConfigPath != "" {
		if err := errors.ValidateInputPath(o.ConfigPath); err != nil {
			return cfg, err
		}
		var err error
		if cfg, err = layout.LoadConfig(o.ConfigPath, cfg); err != nil {
			return cfg, err
		}
	}

	setFloat(&cfg.HGap, o.HGap)
	setFloat(&cfg.VGap, o.VGap)
	setBool(&cfg.Tags, o.Tags)
	setBool(&cfg.Smooth, o.Smooth)
	setBool(&cfg.Indices, o.Indices)
	setBool(&cfg.KeepIndices, o.KeepIndices)
	setBool(&cfg.LevelSiblings, o.LevelSiblings)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// LayoutConfig returns the resolved configuration. It is only meaningful
// after ValidateAndSetDefaults succeeded.
func (o *Options) LayoutConfig() layout.Config { return o.config }

// DocumentKeyOpts returns the cache key options for this conversion.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	opts := cache.DocumentKeyOpts{
		Kind:   o.Kind,
		Format: o.Format,
		Config: o.config,
		Skip:   o.SkipInvalid,
	}
	if o.Format == FormatSVG {
		opts.Config = struct {
			Layout   layout.Config `json:"layout"`
			Sentence int           `json:"sentence"`
			Detailed bool          `json:"detailed"`
		}{o.config, o.Sentence, o.Detailed}
	}
	return opts
}
