// Package pkg provides the libraries behind treeml, a converter from parsed
// sentences to yEd GraphML.
//
// # Overview
//
// Two input formats are supported. Dependency trees arrive as seven-column
// token lines ([conll]); constituency trees as Penn Treebank brackets
// ([penn]). Each format has its own layout package, and both write through
// the same [graphml] writer:
//
//	token lines ─→ [conll] ─→ [dependency] ─┐
//	                                        ├─→ [graphml]
//	brackets ────→ [penn] ──→ [constituency]┘
//
// [layout] holds the shared configuration and the per-document context that
// carries the vertical offset and element ids from one sentence to the next.
// [text] measures label widths.
//
// [pipeline] runs the whole conversion with caching ([cache]) and hooks
// ([observability]); the CLI and the HTTP server both go through it.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	out, stats, err := runner.Dependency(ctx, os.Stdin, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d sentences\n", stats.Sentences)
//	os.Stdout.Write(out)
//
// [conll]: github.com/matzehuels/treeml/pkg/conll
// [penn]: github.com/matzehuels/treeml/pkg/penn
// [dependency]: github.com/matzehuels/treeml/pkg/dependency
// [constituency]: github.com/matzehuels/treeml/pkg/constituency
// [graphml]: github.com/matzehuels/treeml/pkg/graphml
// [layout]: github.com/matzehuels/treeml/pkg/layout
// [text]: github.com/matzehuels/treeml/pkg/text
// [pipeline]: github.com/matzehuels/treeml/pkg/pipeline
// [cache]: github.com/matzehuels/treeml/pkg/cache
// [observability]: github.com/matzehuels/treeml/pkg/observability
package pkg
