package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/nbt"
)

// errTreesDiffer is returned with --exit-code when the documents differ.
var errTreesDiffer = errors.New("documents differ")

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Show line differences between two documents",
	Long: `Print both documents as trees and show the lines that differ. The
comparison ignores compression, so a gzip file and its raw copy compare
equal.

Example:
  nbt diff level.dat level.dat_old`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		a, _, err := e.load(args[0])
		if err != nil {
			return err
		}
		b, _, err := e.load(args[1])
		if err != nil {
			return err
		}
		if a.Equal(b) {
			e.log.Debug("documents are equal", "a", args[0], "b", args[1])
			return nil
		}

		out := cmd.OutOrStdout()
		if err := writeDiff(out, dumpAll(a), dumpAll(b), useColor(e.cfg.Output.Color, out)); err != nil {
			return err
		}
		if exit, _ := cmd.Flags().GetBool("exit-code"); exit {
			return errTreesDiffer
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().Bool("exit-code", false, "Fail when the documents differ")
}

// dumpAll renders t without eliding any elements.
func dumpAll(t *nbt.Tree) string {
	var sb strings.Builder
	_ = nbt.Printer{}.Fprint(&sb, t)
	return sb.String()
}

// writeDiff writes a line diff of a and b, prefixing removed lines with "-",
// added lines with "+" and unchanged lines with a space.
func writeDiff(w io.Writer, a, b string, colored bool) error {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			var err error
			switch d.Type {
			case diffpatch.DiffDelete:
				_, err = del.Fprint(w, "-"+line)
			case diffpatch.DiffInsert:
				_, err = ins.Fprint(w, "+"+line)
			default:
				_, err = fmt.Fprint(w, " "+line)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
