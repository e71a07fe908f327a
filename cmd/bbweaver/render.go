package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/grahms/bbweaver"
)

// tagFlags selects the allow-list for commands that build an engine locally.
type tagFlags struct {
	file   string
	strict bool
}

func (f *tagFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "tags", "t", "", "YAML tag set file (default: built-in set)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Use the built-in inline formatting set")
	cmd.MarkFlagsMutuallyExclusive("tags", "strict")
}

func (f *tagFlags) load() ([]*bbweaver.TagDefinition, error) {
	switch {
	case f.file != "":
		return bbweaver.LoadTagSetFile(f.file)
	case f.strict:
		return bbweaver.StrictTagSet(), nil
	default:
		return bbweaver.DefaultTagSet(), nil
	}
}

func renderCmd() *cobra.Command {
	var (
		tags        tagFlags
		bare        bool
		marker      string
		escapeAttrs bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a file or stdin to HTML",
		Long: `Render bracket markup to HTML on stdout.

Examples:
  bbweaver render post.txt
  echo '[b]hi[/b]' | bbweaver render --bare
  bbweaver render --tags forum.yaml --escape-attrs post.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := tags.load()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			src, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			opts := []bbweaver.Option{bbweaver.WithEscapeMarker(marker)}
			if bare {
				opts = append(opts, bbweaver.WithBareTags())
			}
			if escapeAttrs {
				opts = append(opts, bbweaver.WithAttributeEscaping())
			}

			_, err = io.WriteString(cmd.OutOrStdout(), bbweaver.NewEngine(defs, opts...).Render(string(src)))
			return err
		},
	}

	tags.register(cmd)
	cmd.Flags().BoolVarP(&bare, "bare", "b", false, "Also match openings without attributes, like [b]")
	cmd.Flags().StringVar(&marker, "escape-marker", bbweaver.DefaultEscapeMarker, "Sequence that keeps a bracket literal; empty disables escaping")
	cmd.Flags().BoolVar(&escapeAttrs, "escape-attrs", false, "HTML-escape attribute values")

	return cmd
}

func tagsCmd() *cobra.Command {
	var tags tagFlags

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the tag set as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := tags.load()
			if err != nil {
				return err
			}
			data, err := bbweaver.MarshalTagSet(defs)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	tags.register(cmd)
	return cmd
}
