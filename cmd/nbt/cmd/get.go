package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/nbt"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print the value at a path",
	Long: `Print the value at a path inside an NBT document. Compounds and
lists are printed as trees, everything else as a bare value.

Example:
  nbt get level.dat Data.LevelName
  nbt get player.dat 'Inventory[0].id'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		path, err := nbt.ParsePath(args[1])
		if err != nil {
			return err
		}
		tree, _, err := e.load(args[0])
		if err != nil {
			return err
		}
		v, err := nbt.Lookup(tree.Root, path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		showKind, _ := cmd.Flags().GetBool("kind")
		switch v.Kind() {
		case nbt.KindCompound, nbt.KindList:
			return e.printerFor(out).FprintNamed(out, leafName(path), v)
		default:
			if showKind {
				_, err = fmt.Fprintf(out, "%s %s\n", v.Kind(), v)
			} else {
				_, err = fmt.Fprintln(out, display(v))
			}
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("kind", false, "Prefix scalar values with their kind")
}

// display formats scalars for shell use: strings unquoted, arrays in full.
func display(v nbt.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.String()
}

// leafName names the value a path points at: the last entry name, or the
// whole path for list elements.
func leafName(p nbt.Path) string {
	if last := p[len(p)-1]; !last.IsIndex {
		return last.Name
	}
	return p.String()
}
