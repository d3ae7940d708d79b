package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/pipeline"
)

// convertFlags holds the command-line flags shared by dep and penn.
type convertFlags struct {
	output      string
	config      string
	hGap        float64
	vGap        float64
	smooth      bool
	skipInvalid bool
	noCache     bool
	refresh     bool

	tags bool

	// dependency only
	indices bool

	// constituency only
	keepIndices   bool
	levelSiblings bool
}

func (f *convertFlags) register(cmd *cobra.Command, kind string) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (default <input>.graphml)")
	fs.StringVar(&f.config, "config", "", "layout config file (TOML)")
	fs.Float64VarP(&f.hGap, "h-gap", "H", 0, "horizontal gap between tokens (default 25)")
	fs.Float64VarP(&f.vGap, "v-gap", "V", 0, "vertical gap between tiers or levels (default 20)")
	fs.BoolVarP(&f.smooth, "smooth", "s", false, "draw smoothed edges")
	fs.BoolVar(&f.skipInvalid, "skip-invalid", false, "skip malformed sentences instead of failing")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")

	switch kind {
	case pipeline.KindDependency:
		fs.BoolVarP(&f.tags, "tags", "p", false, "draw part-of-speech tag boxes under tokens")
		fs.BoolVar(&f.indices, "indices", false, "draw token indices")
	case pipeline.KindConstituency:
		fs.BoolVarP(&f.tags, "tags", "p", true, "draw part-of-speech tag boxes above words (--tags=false links phrases to words)")
		fs.BoolVar(&f.keepIndices, "keep-indices", false, "keep numeric co-indices on phrase tags (NP-SBJ-1 becomes NP-1)")
		fs.BoolVar(&f.levelSiblings, "level-siblings", false, "draw sibling phrases at the same height")
	}
}

// options maps flags onto pipeline options. Only flags given on the command
// line override the config file.
func (f *convertFlags) options(cmd *cobra.Command, kind string) pipeline.Options {
	opts := pipeline.Options{
		Kind:        kind,
		ConfigPath:  f.config,
		SkipInvalid: f.skipInvalid,
		Refresh:     f.refresh,
	}
	changed := cmd.Flags().Changed
	if changed("h-gap") {
		opts.HGap = pipeline.Float(f.hGap)
	}
	if changed("v-gap") {
		opts.VGap = pipeline.Float(f.vGap)
	}
	if changed("smooth") {
		opts.Smooth = pipeline.Bool(f.smooth)
	}
	if changed("tags") {
		opts.Tags = pipeline.Bool(f.tags)
	}
	if changed("indices") {
		opts.Indices = pipeline.Bool(f.indices)
	}
	if changed("keep-indices") {
		opts.KeepIndices = pipeline.Bool(f.keepIndices)
	}
	if changed("level-siblings") {
		opts.LevelSiblings = pipeline.Bool(f.levelSiblings)
	}
	return opts
}

// dependencyCommand creates the dep command.
func (c *CLI) dependencyCommand() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:     "dep [file]",
		Aliases: []string{"dependency"},
		Short:   "Convert dependency trees to GraphML",
		Long: `Convert dependency trees to GraphML.

The input holds one token per line with seven whitespace-separated columns:

  id  form  lemma  tag  feats  head  label

Sentences are separated by blank lines. A head of 0 attaches the token to the
synthetic root. CoNLL-U comment lines, multiword ranges and empty nodes are
skipped.`,
		Example: `  treeml dep parse.conll
  treeml dep -p -s -o parse.graphml parse.conll`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args, flags.options(cmd, pipeline.KindDependency), flags)
		},
	}
	flags.register(cmd, pipeline.KindDependency)
	return cmd
}

// constituencyCommand creates the penn command.
func (c *CLI) constituencyCommand() *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:     "penn [file]",
		Aliases: []string{"constituency"},
		Short:   "Convert Penn Treebank bracketed trees to GraphML",
		Long: `Convert Penn Treebank bracketed trees to GraphML.

Each tree is wrapped in an outer pair of brackets, optionally labelled TOP or
ROOT. Trees may span several lines and several trees may share a line.
Function tags and co-indices are stripped from phrase tags.`,
		Example: `  treeml penn wsj_0001.mrg
  treeml penn --keep-indices -o out.graphml wsj_0001.mrg
  treeml penn --tags=false wsj_0001.mrg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args, flags.options(cmd, pipeline.KindConstituency), flags)
		},
	}
	flags.register(cmd, pipeline.KindConstituency)
	return cmd
}

func (c *CLI) runConvert(ctx context.Context, args []string, opts pipeline.Options, flags convertFlags) error {
	if len(args) == 0 {
		return errors.ConfigError("input file is required")
	}
	input := args[0]
	if err := errors.ValidateInputPath(input); err != nil {
		return err
	}
	output := flags.output
	if output == "" {
		output = defaultOutput(input, pipeline.FormatGraphML)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Converting %s...", filepath.Base(input)))
	spinner.Start()

	res, err := runner.Execute(ctx, data, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Stop()

	if err := writeFileAtomic(output, res.Output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d sentences", res.Stats.Sentences))

	printSuccess("Wrote %s", StyleHighlight.Render(opts.Kind+" graph"))
	printFile(output)
	printStats(res.Stats)
	if res.Stats.Skipped > 0 {
		printWarning("Skipped %d malformed sentences", res.Stats.Skipped)
	}
	return nil
}

// defaultOutput appends the format extension to the input path, so
// "parse.conll" becomes "parse.conll.graphml".
func defaultOutput(input, format string) string {
	return input + "." + format
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place, so a failed run never leaves a truncated document behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
