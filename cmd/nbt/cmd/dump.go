package cmd

import (
	"github.com/spf13/cobra"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print a document as an indented tree",
	Long: `Print every tag in an NBT document, one per line.

Example:
  nbt dump level.dat
  nbt dump --max-elems 0 region-chunk.nbt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-elems") {
			e.cfg.Output.MaxElems, _ = cmd.Flags().GetInt("max-elems")
		}

		tree, _, err := e.load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return e.printerFor(out).Fprint(out, tree)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Int("max-elems", 16, "Elide arrays and numeric lists longer than this (0 prints all)")
}
