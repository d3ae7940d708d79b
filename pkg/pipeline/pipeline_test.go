package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeml/pkg/cache"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/layout"
	"github.com/matzehuels/treeml/pkg/observability"
	"github.com/matzehuels/treeml/pkg/text"
)

const johnLeft = "1\tJohn\tjohn\tNNP\t_\t2\tnsubj\n2\tleft\tleave\tVBD\t_\t0\troot\n"

const johnLeftTree = "( (S (NP (NNP John)) (VP (VBD left))) )\n"

func testOptions() Options {
	return Options{
		Measurer: text.Fixed{PerRune: 10, LineHeight: 10},
		Logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateKind(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{KindDependency, false},
		{KindConstituency, false},
		{"", true},
		{"tower", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			err := ValidateKind(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKind(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{FormatGraphML, false},
		{FormatSVG, false},
		{"png", true},
		{"GRAPHML", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ValidateFormat(%q) code = %s, want INVALID_CONFIG", tt.format, errors.GetCode(err))
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Kind: KindDependency}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
	if opts.Sentence != 1 {
		t.Errorf("Sentence = %d, want 1", opts.Sentence)
	}
	if opts.Measurer == nil || opts.Logger == nil {
		t.Error("Measurer and Logger should be set")
	}
	if got, want := opts.LayoutConfig(), layout.DefaultDependency(); got != want {
		t.Errorf("LayoutConfig() = %+v, want %+v", got, want)
	}

	opts = Options{Kind: KindConstituency}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if got, want := opts.LayoutConfig(), layout.DefaultConstituency(); got != want {
		t.Errorf("LayoutConfig() = %+v, want %+v", got, want)
	}
}

func TestOptionsConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treeml.toml")
	src := "h_gap = 40\nv_gap = 30\ntags = true\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{
		Kind:       KindDependency,
		ConfigPath: path,
		VGap:       Float(50),
		Smooth:     Bool(true),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	cfg := opts.LayoutConfig()
	if cfg.HGap != 40 {
		t.Errorf("HGap = %v, want 40 from the config file", cfg.HGap)
	}
	if cfg.VGap != 50 {
		t.Errorf("VGap = %v, want 50 from the override", cfg.VGap)
	}
	if !cfg.Tags || !cfg.Smooth {
		t.Errorf("Tags = %v, Smooth = %v, want both true", cfg.Tags, cfg.Smooth)
	}
	if cfg.SentenceGap != layout.DefaultSentenceGap {
		t.Errorf("SentenceGap = %v, want default %v", cfg.SentenceGap, layout.DefaultSentenceGap)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero h gap", Options{Kind: KindDependency, HGap: Float(0)}},
		{"negative v gap", Options{Kind: KindConstituency, VGap: Float(-5)}},
		{"unknown format", Options{Kind: KindDependency, Format: "pdf"}},
		{"missing kind", Options{}},
		{"missing config file", Options{Kind: KindDependency, ConfigPath: "/nonexistent/treeml.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOptionsKindMismatch(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"keep indices on dependency", Options{Kind: KindDependency, KeepIndices: Bool(true)}, true},
		{"level siblings on dependency", Options{Kind: KindDependency, LevelSiblings: Bool(true)}, true},
		{"indices on constituency", Options{Kind: KindConstituency, Indices: Bool(true)}, true},
		{"explicit false", Options{Kind: KindConstituency, Indices: Bool(false)}, false},
		{"matching kind", Options{Kind: KindConstituency, KeepIndices: Bool(true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.Is(err, errors.ErrCodeUnsupported); got != tt.want {
				t.Errorf("ValidateAndSetDefaults() error = %v, want UNSUPPORTED %v", err, tt.want)
			}
			if !tt.want && err != nil {
				t.Errorf("ValidateAndSetDefaults() error = %v, want nil", err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Kind: KindDependency, HGap: Float(30)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.LayoutConfig()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.LayoutConfig() != first {
		t.Error("LayoutConfig changed on second call")
	}
}

func TestDocumentKeyOptsVaryWithConfig(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	key := func(opts Options) string {
		t.Helper()
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		return keyer.DocumentKey("input", opts.DocumentKeyOpts())
	}

	base := key(Options{Kind: KindDependency})
	if got := key(Options{Kind: KindDependency}); got != base {
		t.Errorf("same options gave different keys")
	}
	for name, opts := range map[string]Options{
		"h gap":        {Kind: KindDependency, HGap: Float(30)},
		"tags":         {Kind: KindDependency, Tags: Bool(true)},
		"skip":         {Kind: KindDependency, SkipInvalid: true},
		"svg":          {Kind: KindDependency, Format: FormatSVG},
		"constituency": {Kind: KindConstituency},
	} {
		if key(opts) == base {
			t.Errorf("%s: key did not change", name)
		}
	}
}

func TestDependencyJohnLeft(t *testing.T) {
	out, st, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(johnLeft), testOptions())
	if err != nil {
		t.Fatalf("Dependency() error = %v", err)
	}

	if !bytes.HasPrefix(out, []byte("<?xml")) || !bytes.HasSuffix(out, []byte("</graphml>\n")) {
		t.Errorf("output is not a complete GraphML document")
	}
	for _, want := range []string{`<node id="n1">`, `<node id="n2">`, `source="n2" target="n1"`, ">nsubj<"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %s", want)
		}
	}

	want := Stats{Sentences: 1, Tokens: 2, Arcs: 2, MaxTier: 2, Nodes: 3, Edges: 2}
	if st.Sentences != want.Sentences || st.Tokens != want.Tokens || st.Arcs != want.Arcs ||
		st.MaxTier != want.MaxTier || st.Nodes != want.Nodes || st.Edges != want.Edges {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

func TestDependencyFormatErrorReturnsNoOutput(t *testing.T) {
	in := johnLeft + "\n1\tbad\tbad\tNN\t_\n"
	out, _, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(in), testOptions())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("Dependency() error = %v, want INVALID_FORMAT", err)
	}
	if out != nil {
		t.Errorf("Dependency() output = %d bytes, want none", len(out))
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "line 4") {
		t.Errorf("message = %q, want line 4", msg)
	}
}

func TestDependencySkipInvalid(t *testing.T) {
	in := "1\tbad\tbad\tNN\t_\n\n" + johnLeft
	opts := testOptions()
	opts.SkipInvalid = true

	out, st, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(in), opts)
	if err != nil {
		t.Fatalf("Dependency() error = %v", err)
	}
	if st.Sentences != 1 || st.Skipped != 1 {
		t.Errorf("Sentences = %d, Skipped = %d, want 1 and 1", st.Sentences, st.Skipped)
	}
	// The skipped sentence consumes no ids.
	if !bytes.Contains(out, []byte(`<node id="n0">`)) {
		t.Errorf("first drawn sentence should start at id 0")
	}
}

func TestDependencyIDsContinueAcrossSentences(t *testing.T) {
	in := johnLeft + "\n" + johnLeft
	out, st, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(in), testOptions())
	if err != nil {
		t.Fatalf("Dependency() error = %v", err)
	}
	if st.Sentences != 2 || st.Nodes != 6 {
		t.Errorf("Sentences = %d, Nodes = %d, want 2 and 6", st.Sentences, st.Nodes)
	}
	if !bytes.Contains(out, []byte(`source="n5" target="n4"`)) {
		t.Errorf("second sentence should use ids 3..5")
	}
}

func TestConstituency(t *testing.T) {
	out, st, err := testRunner(nil).Constituency(context.Background(), strings.NewReader(johnLeftTree), testOptions())
	if err != nil {
		t.Fatalf("Constituency() error = %v", err)
	}
	if st.Sentences != 1 || st.Tokens != 2 {
		t.Errorf("Sentences = %d, Tokens = %d, want 1 and 2", st.Sentences, st.Tokens)
	}
	for _, want := range []string{">John<", ">NNP<", ">S<"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestConstituencyUnbalanced(t *testing.T) {
	in := johnLeftTree + "( (S (NP (NN x))\n"
	out, _, err := testRunner(nil).Constituency(context.Background(), strings.NewReader(in), testOptions())
	if !errors.Is(err, errors.ErrCodeUnbalancedBrackets) {
		t.Fatalf("Constituency() error = %v, want UNBALANCED_BRACKETS", err)
	}
	if out != nil {
		t.Errorf("Constituency() output = %d bytes, want none", len(out))
	}
}

func TestConstituencySkipInvalid(t *testing.T) {
	in := "( (S (NP) (NN a)) )\n" + johnLeftTree
	opts := testOptions()
	opts.SkipInvalid = true

	_, st, err := testRunner(nil).Constituency(context.Background(), strings.NewReader(in), opts)
	if err != nil {
		t.Fatalf("Constituency() error = %v", err)
	}
	if st.Sentences != 1 || st.Skipped != 1 {
		t.Errorf("Sentences = %d, Skipped = %d, want 1 and 1", st.Sentences, st.Skipped)
	}
}

func TestRunnerCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := testRunner(c)
	ctx := context.Background()

	first, st, err := r.Dependency(ctx, strings.NewReader(johnLeft), testOptions())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if st.CacheHit {
		t.Error("first run should miss the cache")
	}

	second, st, err := r.Dependency(ctx, strings.NewReader(johnLeft), testOptions())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !st.CacheHit {
		t.Error("second run should hit the cache")
	}
	if st.Sentences != 1 {
		t.Errorf("cached Sentences = %d, want 1", st.Sentences)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached output differs from the original")
	}

	opts := testOptions()
	opts.Refresh = true
	if _, st, _ := r.Dependency(ctx, strings.NewReader(johnLeft), opts); st.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	opts = testOptions()
	opts.Tags = Bool(true)
	if _, st, _ := r.Dependency(ctx, strings.NewReader(johnLeft), opts); st.CacheHit {
		t.Error("different options should miss the cache")
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testRunner(nil).Dependency(ctx, strings.NewReader(johnLeft), testOptions())
	if err != context.Canceled {
		t.Errorf("Dependency() error = %v, want context.Canceled", err)
	}
}

func TestPreviewSentenceOutOfRange(t *testing.T) {
	opts := testOptions()
	opts.Format = FormatSVG
	opts.Sentence = 3

	_, _, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(johnLeft), opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Dependency() error = %v, want INVALID_CONFIG", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	parsed, shifts, written int
	parseErr                error
}

func (h *recordingHooks) OnParse(_ context.Context, _ string, sentences int, _ time.Duration, err error) {
	h.parsed, h.parseErr = sentences, err
}

func (h *recordingHooks) OnLayout(_ context.Context, _ string, _ int, shifts int, _ time.Duration) {
	h.shifts = shifts
}

func (h *recordingHooks) OnWrite(_ context.Context, _ string, n int, _ time.Duration, _ error) {
	h.written = n
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	out, _, err := testRunner(nil).Dependency(context.Background(), strings.NewReader(johnLeft+"\n"+johnLeft), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if hooks.parsed != 2 || hooks.parseErr != nil {
		t.Errorf("OnParse sentences = %d, err = %v, want 2 and nil", hooks.parsed, hooks.parseErr)
	}
	if hooks.written != len(out) {
		t.Errorf("OnWrite bytes = %d, want %d", hooks.written, len(out))
	}

	_, _, err = testRunner(nil).Dependency(context.Background(), strings.NewReader("1\tx\n"), testOptions())
	if err == nil || hooks.parseErr == nil {
		t.Errorf("OnParse should receive the parse error, got %v", hooks.parseErr)
	}
}
