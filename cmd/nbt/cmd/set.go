package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/nbt"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Set the value at a path",
	Long: `Set the value at a path and save the document back in place.

An existing entry keeps its kind unless --kind is given. New entries are
stored as Long, Double or String depending on how the value parses.
Arrays are written as comma separated integers.

Example:
  nbt set level.dat Data.LevelName "New World"
  nbt set level.dat Data.SpawnY 70 --kind int
  nbt set chunk.nbt Level.HeightMap 1,2,3 --kind intarray`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		path, err := nbt.ParsePath(args[1])
		if err != nil {
			return err
		}
		tree, compression, err := e.load(args[0])
		if err != nil {
			return err
		}

		kind := nbt.KindEnd
		if cmd.Flags().Changed("kind") {
			name, _ := cmd.Flags().GetString("kind")
			if kind, err = nbt.ParseKind(name); err != nil {
				return err
			}
		} else if old, err := nbt.Lookup(tree.Root, path); err == nil {
			kind = old.Kind()
		} else if !errors.Is(err, nbt.ErrNotFound) {
			return err
		}

		v, err := parseValue(kind, args[2])
		if err != nil {
			return err
		}
		if err := nbt.Assign(tree.Root, path, v); err != nil {
			return err
		}

		if compression, err = compressionFlag(cmd, compression); err != nil {
			return err
		}
		if err := e.save(args[0], tree, compression); err != nil {
			return err
		}
		e.log.Info("value set", "file", args[0], "path", path.String(), "kind", v.Kind())
		return nil
	},
}

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:     "rm <file> <path>",
	Aliases: []string{"remove"},
	Short:   "Remove the entry or list element at a path",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		path, err := nbt.ParsePath(args[1])
		if err != nil {
			return err
		}
		tree, compression, err := e.load(args[0])
		if err != nil {
			return err
		}
		if err := nbt.Remove(tree.Root, path); err != nil {
			return err
		}
		if err := e.save(args[0], tree, compression); err != nil {
			return err
		}
		e.log.Info("value removed", "file", args[0], "path", path.String())
		return nil
	},
}

// retypeCmd represents the retype command
var retypeCmd = &cobra.Command{
	Use:   "retype <file> <path> <kind>",
	Short: "Convert the value at a path to another kind",
	Long: `Convert the value at a path to another kind, failing without changes
when the value does not fit.

Example:
  nbt retype level.dat Data.SpawnY short
  nbt retype player.dat Health float`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		path, err := nbt.ParsePath(args[1])
		if err != nil {
			return err
		}
		target, err := nbt.ParseKind(args[2])
		if err != nil {
			return err
		}
		tree, compression, err := e.load(args[0])
		if err != nil {
			return err
		}

		old, err := nbt.Lookup(tree.Root, path)
		if err != nil {
			return err
		}
		v, err := nbt.Coerce(old, target)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := nbt.Assign(tree.Root, path, v); err != nil {
			return err
		}
		if err := e.save(args[0], tree, compression); err != nil {
			return err
		}
		e.log.Info("value retyped", "file", args[0], "path", path.String(), "from", old.Kind(), "to", target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(retypeCmd)

	setCmd.Flags().String("kind", "", "Kind to store, e.g. byte, int, double, string, intarray")
	setCmd.Flags().String("compression", "", "Compression for the saved file (default: as read)")
}

// parseValue converts command line text to a value of kind. KindEnd picks
// the kind from the text.
func parseValue(kind nbt.Kind, text string) (nbt.Value, error) {
	switch {
	case kind == nbt.KindEnd:
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			return nbt.Infer(n)
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return nbt.Infer(f)
		}
		return nbt.String(text), nil

	case kind.IsInteger():
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nbt.Value{}, fmt.Errorf("parse %s: %w", kind, err)
		}
		return nbt.New(kind, n)

	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nbt.Value{}, fmt.Errorf("parse %s: %w", kind, err)
		}
		return nbt.New(kind, f)

	case kind == nbt.KindString:
		return nbt.String(text), nil

	case kind.IsArray():
		var ns []int64
		for _, field := range strings.Split(text, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.ParseInt(field, 0, 64)
			if err != nil {
				return nbt.Value{}, fmt.Errorf("parse %s element: %w", kind, err)
			}
			ns = append(ns, n)
		}
		return nbt.New(kind, ns)
	}
	return nbt.Value{}, fmt.Errorf("%w: %s values cannot be set from text", nbt.ErrIncompatibleCoercion, kind)
}
