package cmd

import (
	"github.com/spf13/cobra"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Rewrite a document with different compression",
	Long: `Read a document and write it to another file, re-encoding the tree
and applying the requested compression. Without --compression the
configured default is used.

Example:
  nbt convert level.dat level.nbt --compression none
  nbt convert chunk.nbt chunk.nbt.zst --compression zstd --level 19`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("level") {
			e.cfg.CompressionLevel, _ = cmd.Flags().GetInt("level")
		}

		tree, from, err := e.load(args[0])
		if err != nil {
			return err
		}

		opts, err := e.cfg.FileOptions()
		if err != nil {
			return err
		}
		to, err := compressionFlag(cmd, opts.Compression)
		if err != nil {
			return err
		}
		if err := e.save(args[1], tree, to); err != nil {
			return err
		}

		e.log.Info("converted", "in", args[0], "out", args[1], "from", from, "to", to)
		status(cmd.OutOrStdout(), e.cfg.Output.Color, "%s (%s) -> %s (%s)\n", args[0], from, args[1], to)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("compression", "c", "", "Output compression: none, gzip, zlib, zstd or lz4")
	convertCmd.Flags().Int("level", 0, "Compression level (0 for the algorithm default)")
}
