package cmd

import (
	"code2text/pkg/config"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the code2text command tree. Each call returns an
// independent command with its own configuration state.
func NewRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "code2text [directory]",
		Short: "code2text combines source files into a single text report",
		Long: `code2text walks a directory, keeps source and config files, and writes their
contents into one text document, optionally prefixed by a directory tree.
The result is meant to be pasted into an LLM conversation.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runCombine(cmd, v, configFile, root)
		},
	}

	rootCmd.Flags().BoolP("tree", "t", false, "Prefix the output with a directory tree")
	rootCmd.Flags().Bool("no-open", false, "Do not open the output with the default viewer")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is .code2text.yaml in the directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	_ = v.BindPFlag("tree", rootCmd.Flags().Lookup("tree"))
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
