package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/nbt/pkg/snapshot"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore copies of documents",
	Long: `Keep point-in-time copies of NBT documents in a local snapshot store,
by default under the user cache directory.

Example:
  nbt snapshot save level.dat --label "before upgrade"
  nbt snapshot list
  nbt snapshot restore latest level.dat`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Store a copy of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		tree, _, err := e.load(args[0])
		if err != nil {
			return err
		}

		return e.withStore(cmd, func(store *snapshot.Store) error {
			label, _ := cmd.Flags().GetString("label")
			id, err := store.Put(tree, label)
			if err != nil {
				return err
			}
			e.log.Info("snapshot saved", "id", id, "file", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id|latest> <file>",
	Short: "Write a stored copy back to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		return e.withStore(cmd, func(store *snapshot.Store) error {
			id, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			tree, err := store.Get(id)
			if err != nil {
				return err
			}

			opts, err := e.cfg.FileOptions()
			if err != nil {
				return err
			}
			c, err := compressionFlag(cmd, opts.Compression)
			if err != nil {
				return err
			}
			if err := e.save(args[1], tree, c); err != nil {
				return err
			}
			e.log.Info("snapshot restored", "id", id, "file", args[1], "compression", c)
			return nil
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}

		return e.withStore(cmd, func(store *snapshot.Store) error {
			infos, err := store.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tROOT\tSIZE\tLABEL")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%q\t%s\t%s\n",
					info.ID, humanize.Time(info.Created), info.Name, humanize.IBytes(uint64(info.Size)), info.Label)
			}
			return w.Flush()
		})
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := envFrom(cmd)
		if err != nil {
			return err
		}
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}

		return e.withStore(cmd, func(store *snapshot.Store) error {
			if err := store.Delete(id); err != nil {
				return err
			}
			e.log.Info("snapshot deleted", "id", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotRestoreCmd, snapshotListCmd, snapshotDeleteCmd)

	snapshotCmd.PersistentFlags().String("dir", "", "Snapshot store directory (default from config)")
	snapshotSaveCmd.Flags().String("label", "", "Free-form note stored with the snapshot")
	snapshotRestoreCmd.Flags().String("compression", "", "Compression for the restored file (default from config)")
}

// withStore opens the snapshot store for the duration of fn. The --dir flag
// overrides the configured location.
func (e *env) withStore(cmd *cobra.Command, fn func(*snapshot.Store) error) (err error) {
	dir := e.cfg.SnapshotDir
	if cmd.Flags().Changed("dir") {
		dir, _ = cmd.Flags().GetString("dir")
	}
	e.log.Debug("opening snapshot store", "dir", dir)

	store, err := snapshot.Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(store)
}
