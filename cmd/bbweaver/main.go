package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bbweaver",
		Short: "Render allow-listed bracket tags to HTML",
		Long: `bbweaver rewrites bracket markup such as [b]bold[/b] or
[a href="https://example.com"]link[/a] into HTML.

Only tags and attributes on the allow-list are rewritten. Everything
else, including escaped tags like \[b], is passed through untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		tagsCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}
