package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/nbt"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a document",
	Long: `Show the compression, sizes, nesting depth and tag counts of an NBT
document.

Example:
  nbt info level.dat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		st, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		tree, compression, err := e.load(args[0])
		if err != nil {
			return err
		}
		raw, err := nbt.Marshal(tree)
		if err != nil {
			return err
		}

		s := summarize(tree)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "File:\t%s\n", args[0])
		fmt.Fprintf(w, "Compression:\t%s\n", compression)
		fmt.Fprintf(w, "Size on disk:\t%s\n", humanize.IBytes(uint64(st.Size())))
		fmt.Fprintf(w, "Encoded size:\t%s\n", humanize.IBytes(uint64(len(raw))))
		fmt.Fprintf(w, "Root name:\t%q\n", tree.Name)
		fmt.Fprintf(w, "Root entries:\t%d\n", tree.Root.Len())
		fmt.Fprintf(w, "Max depth:\t%d\n", s.depth)
		fmt.Fprintf(w, "Tags:\t%s\n", humanize.Comma(int64(s.total())))
		for _, k := range s.kinds() {
			fmt.Fprintf(w, "  %s\t%s\n", k, humanize.Comma(int64(s.counts[k])))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type treeStats struct {
	counts map[nbt.Kind]int
	depth  int
}

// summarize counts every tag in tree, the root compound included.
func summarize(tree *nbt.Tree) treeStats {
	s := treeStats{counts: make(map[nbt.Kind]int)}
	s.visit(nbt.CompoundValue(tree.Root), 1)
	return s
}

func (s *treeStats) visit(v nbt.Value, depth int) {
	s.counts[v.Kind()]++
	s.depth = max(s.depth, depth)

	if c, ok := v.AsCompound(); ok {
		for _, child := range c.All() {
			s.visit(child, depth+1)
		}
	}
	if l, ok := v.AsList(); ok {
		for _, child := range l.All() {
			s.visit(child, depth+1)
		}
	}
}

func (s treeStats) total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

func (s treeStats) kinds() []nbt.Kind {
	kinds := make([]nbt.Kind, 0, len(s.counts))
	for k := range s.counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
