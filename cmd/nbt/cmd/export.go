package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/nbt/pkg/nbt"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file> [path]",
	Short: "Write a document as JSON, YAML or CBOR",
	Long: `Convert a document, or the value at a path inside it, to a generic
data format on stdout. Kinds are not preserved: integers of every width
become plain numbers and lists become arrays.

Example:
  nbt export level.dat
  nbt export player.dat Inventory --format yaml
  nbt export level.dat --format cbor > level.cbor`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		tree, _, err := e.load(args[0])
		if err != nil {
			return err
		}
		v := nbt.CompoundValue(tree.Root)
		if len(args) == 2 {
			path, err := nbt.ParsePath(args[1])
			if err != nil {
				return err
			}
			if v, err = nbt.Lookup(tree.Root, path); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("format")
		data, err := encodeValue(format, v)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml or cbor")
}

// cborEncMode sorts map keys so output is deterministic.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic("cbor encoder initialization failed: " + err.Error())
	}
}

func encodeValue(format string, v nbt.Value) ([]byte, error) {
	if format == "yaml" {
		node, err := yamlNode(v)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(node)
	}
	return encodePlain(format, v.Plain())
}

// yamlNode builds a YAML document whose mappings keep compound entry order.
func yamlNode(v nbt.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case nbt.KindCompound:
		c, _ := v.AsCompound()
		n := &yaml.Node{Kind: yaml.MappingNode}
		for name, child := range c.All() {
			key := &yaml.Node{}
			if err := key.Encode(name); err != nil {
				return nil, err
			}
			val, err := yamlNode(child)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, val)
		}
		return n, nil
	case nbt.KindList:
		l, _ := v.AsList()
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range l.All() {
			val, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v.Native()); err != nil {
		return nil, err
	}
	return n, nil
}

func encodePlain(format string, v any) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	case "cbor":
		return cborEncMode.Marshal(v)
	}
	return nil, fmt.Errorf("unknown export format: %q", format)
}
