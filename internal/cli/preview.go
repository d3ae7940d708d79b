package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/pipeline"
)

// previewCommand creates the preview command, which draws one sentence as a
// Graphviz node-link SVG.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		kind     string
		output   string
		sentence int
		detailed bool
		keep     bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Draw one sentence as an SVG node-link diagram",
		Long: `Draw one sentence as an SVG node-link diagram.

The preview is laid out by Graphviz and is meant for a quick look at a parse
without opening yEd. Use 'dep' or 'penn' for the GraphML document.`,
		Example: `  treeml preview parse.conll
  treeml preview -k constituency -n 3 --detailed wsj_0001.mrg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := errors.ValidateInputPath(input); err != nil {
				return err
			}
			if err := pipeline.ValidateKind(kind); err != nil {
				return err
			}
			if output == "" {
				output = defaultOutput(input, pipeline.FormatSVG)
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := pipeline.Options{
				Kind:     kind,
				Format:   pipeline.FormatSVG,
				Sentence: sentence,
				Detailed: detailed,
				Logger:   c.Logger,
			}
			if keep {
				opts.KeepIndices = pipeline.Bool(true)
			}
			res, err := runner.Execute(cmd.Context(), data, opts)
			if err != nil {
				return err
			}
			if err := writeFileAtomic(output, res.Output); err != nil {
				return err
			}

			printSuccess("Rendered sentence %s", StyleNumber.Render(fmt.Sprint(max(sentence, 1))))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", pipeline.KindDependency, "input kind: dependency, constituency")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.svg)")
	cmd.Flags().IntVarP(&sentence, "sentence", "n", 1, "1-based sentence to draw")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show lemmas, tags and ids in node labels")
	cmd.Flags().BoolVar(&keep, "keep-indices", false, "keep numeric co-indices on phrase tags")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
