package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/nbt/pkg/config"
	"github.com/ssargent/nbt/pkg/nbt"
	"github.com/ssargent/nbt/pkg/nbtfile"
)

type fixture struct {
	dir        string
	configPath string
	levelPath  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Output.Color = "never"
	cfg.SnapshotDir = filepath.Join(dir, "snapshots")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, configPath))

	tree := nbt.NewTree("")
	data := nbt.NewCompound()
	require.NoError(t, data.Set("LevelName", "Survival"))
	require.NoError(t, data.SetAs("SpawnY", nbt.KindInt, 64))
	require.NoError(t, data.Set("Pos", []any{0.5, 64.0, -12.25}))
	require.NoError(t, tree.Root.Put("Data", nbt.CompoundValue(data)))

	levelPath := filepath.Join(dir, "level.dat")
	require.NoError(t, nbtfile.SaveFile(levelPath, tree, nbtfile.Options{Compression: nbtfile.CompressionGzip}))

	return &fixture{dir: dir, configPath: configPath, levelPath: levelPath}
}

// run executes the root command with args, returning stdout. Flag values
// are reset first since the command tree is shared between tests.
func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", f.configPath}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (f *fixture) load(t *testing.T, path string) (*nbt.Tree, nbtfile.Compression) {
	t.Helper()
	tree, c, err := nbtfile.LoadFile(path, nbtfile.Options{})
	require.NoError(t, err)
	return tree, c
}

func TestDumpCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "dump", f.levelPath)
	require.NoError(t, err)

	want := `TAG_Compound(''): {
  TAG_Compound('Data'): {
    TAG_String('LevelName'): 'Survival'
    TAG_Int('SpawnY'): 64
    TAG_List('Pos') of TAG_Double: [0.5, 64, -12.25]
  }
}
`
	assert.Equal(t, want, out)

	out, err = f.run(t, "dump", "--max-elems", "1", f.levelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[0.5, ... 2 more]")
}

func TestGetCommand(t *testing.T) {
	f := newFixture(t)

	t.Run("scalar", func(t *testing.T) {
		out, err := f.run(t, "get", f.levelPath, "Data.LevelName")
		require.NoError(t, err)
		assert.Equal(t, "Survival\n", out)
	})

	t.Run("scalar with kind", func(t *testing.T) {
		out, err := f.run(t, "get", "--kind", f.levelPath, "Data.SpawnY")
		require.NoError(t, err)
		assert.Equal(t, "TAG_Int 64\n", out)
	})

	t.Run("list element", func(t *testing.T) {
		out, err := f.run(t, "get", f.levelPath, "Data.Pos[2]")
		require.NoError(t, err)
		assert.Equal(t, "-12.25\n", out)
	})

	t.Run("compound", func(t *testing.T) {
		out, err := f.run(t, "get", f.levelPath, "Data")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "TAG_Compound('Data'): {\n"), out)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.run(t, "get", f.levelPath, "Data.Missing")
		assert.ErrorIs(t, err, nbt.ErrNotFound)
	})
}

func TestSetCommand(t *testing.T) {
	f := newFixture(t)

	t.Run("keeps existing kind", func(t *testing.T) {
		_, err := f.run(t, "set", f.levelPath, "Data.SpawnY", "70")
		require.NoError(t, err)

		tree, c := f.load(t, f.levelPath)
		assert.Equal(t, nbtfile.CompressionGzip, c, "compression is preserved")
		v, err := nbt.Lookup(tree.Root, nbt.Path{{Name: "Data"}, {Name: "SpawnY"}})
		require.NoError(t, err)
		assert.Equal(t, nbt.Int(70), v)
	})

	t.Run("new entry infers kind", func(t *testing.T) {
		_, err := f.run(t, "set", f.levelPath, "Data.Seed", "12345")
		require.NoError(t, err)

		tree, _ := f.load(t, f.levelPath)
		data, ok := tree.Root.GetCompound("Data")
		require.True(t, ok)
		kind, _ := data.Kind("Seed")
		assert.Equal(t, nbt.KindLong, kind)
	})

	t.Run("explicit kind", func(t *testing.T) {
		_, err := f.run(t, "set", "--kind", "byte", f.levelPath, "Data.Difficulty", "2")
		require.NoError(t, err)
		_, err = f.run(t, "set", "--kind", "intarray", f.levelPath, "Data.Heights", "1, 2,3")
		require.NoError(t, err)

		tree, _ := f.load(t, f.levelPath)
		data, _ := tree.Root.GetCompound("Data")
		d, _ := data.Get("Difficulty")
		assert.Equal(t, nbt.Byte(2), d)
		h, _ := data.Get("Heights")
		assert.Equal(t, nbt.IntArray([]int32{1, 2, 3}), h)
	})

	t.Run("overflow leaves file untouched", func(t *testing.T) {
		before, err := os.ReadFile(f.levelPath)
		require.NoError(t, err)

		_, err = f.run(t, "set", "--kind", "byte", f.levelPath, "Data.Difficulty", "300")
		assert.ErrorIs(t, err, nbt.ErrKindOverflow)

		after, err := os.ReadFile(f.levelPath)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("change compression", func(t *testing.T) {
		_, err := f.run(t, "set", "--compression", "zstd", f.levelPath, "Data.LevelName", "Creative")
		require.NoError(t, err)

		tree, c := f.load(t, f.levelPath)
		assert.Equal(t, nbtfile.CompressionZstd, c)
		data, _ := tree.Root.GetCompound("Data")
		name, _ := data.Get("LevelName")
		assert.Equal(t, nbt.String("Creative"), name)
	})
}

func TestRmCommand(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "rm", f.levelPath, "Data.Pos[0]")
	require.NoError(t, err)
	_, err = f.run(t, "remove", f.levelPath, "Data.LevelName")
	require.NoError(t, err)

	tree, _ := f.load(t, f.levelPath)
	data, _ := tree.Root.GetCompound("Data")
	assert.False(t, data.Has("LevelName"))
	pos, ok := data.GetList("Pos")
	require.True(t, ok)
	assert.Equal(t, 2, pos.Len())
}

func TestRetypeCommand(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "retype", f.levelPath, "Data.SpawnY", "short")
	require.NoError(t, err)

	tree, _ := f.load(t, f.levelPath)
	data, _ := tree.Root.GetCompound("Data")
	kind, ok := data.Kind("SpawnY")
	require.True(t, ok)
	assert.Equal(t, nbt.KindShort, kind)

	_, err = f.run(t, "retype", f.levelPath, "Data.LevelName", "int")
	assert.ErrorIs(t, err, nbt.ErrIncompatibleCoercion)

	_, err = f.run(t, "retype", f.levelPath, "Data.SpawnY", "nonsense")
	assert.ErrorIs(t, err, nbt.ErrInvalidKind)
}

func TestConvertCommand(t *testing.T) {
	f := newFixture(t)
	original, _ := f.load(t, f.levelPath)

	for _, c := range []string{"none", "zlib", "lz4"} {
		out := filepath.Join(f.dir, "level."+c)
		stdout, err := f.run(t, "convert", f.levelPath, out, "--compression", c)
		require.NoError(t, err)
		assert.Contains(t, stdout, "(gzip) -> ")

		converted, got := f.load(t, out)
		assert.Equal(t, c, got.String())
		assert.True(t, original.Equal(converted))
	}

	_, err := f.run(t, "convert", f.levelPath, filepath.Join(f.dir, "x"), "-c", "rar")
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "info", f.levelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gzip")
	assert.Contains(t, out, "Max depth:")
	assert.Regexp(t, `TAG_Double\s+3\n`, out)
	assert.Regexp(t, `TAG_Compound\s+2\n`, out)
	assert.Regexp(t, `Tags:\s+8\n`, out)
}

func TestSummarize(t *testing.T) {
	tree := nbt.NewTree("")
	require.NoError(t, tree.Root.Set("list", []any{map[string]any{"a": 1}}))

	s := summarize(tree)
	assert.Equal(t, 4, s.depth)
	assert.Equal(t, 4, s.total())
	assert.Equal(t, []nbt.Kind{nbt.KindLong, nbt.KindList, nbt.KindCompound}, s.kinds())
}

func TestSnapshotCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "snapshot", "save", f.levelPath, "--label", "before edit")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.Len(t, id, 27)

	_, err = f.run(t, "set", f.levelPath, "Data.LevelName", "Ruined")
	require.NoError(t, err)

	out, err = f.run(t, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "before edit")

	restored := filepath.Join(f.dir, "restored.dat")
	_, err = f.run(t, "snapshot", "restore", "latest", restored)
	require.NoError(t, err)

	tree, c := f.load(t, restored)
	assert.Equal(t, nbtfile.CompressionGzip, c)
	data, _ := tree.Root.GetCompound("Data")
	name, _ := data.Get("LevelName")
	assert.Equal(t, nbt.String("Survival"), name)

	_, err = f.run(t, "snapshot", "delete", id)
	require.NoError(t, err)
	_, err = f.run(t, "snapshot", "restore", id, restored)
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "compression: gzip")
	assert.Contains(t, out, "color: never")

	newPath := filepath.Join(f.dir, "fresh", "nbt.yaml")
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"config", "init", "--config", newPath, "--snapshot-dir", "/tmp/snaps"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), newPath)

	cfg, err := config.LoadConfig(newPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/snaps", cfg.SnapshotDir)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind    nbt.Kind
		text    string
		want    nbt.Value
		wantErr error
	}{
		{nbt.KindEnd, "42", nbt.Long(42), nil},
		{nbt.KindEnd, "0x10", nbt.Long(16), nil},
		{nbt.KindEnd, "1.5", nbt.Double(1.5), nil},
		{nbt.KindEnd, "hello", nbt.String("hello"), nil},
		{nbt.KindShort, "-7", nbt.Short(-7), nil},
		{nbt.KindShort, "40000", nbt.Value{}, nbt.ErrKindOverflow},
		{nbt.KindFloat, "0.25", nbt.Float(0.25), nil},
		{nbt.KindString, "42", nbt.String("42"), nil},
		{nbt.KindByteArray, "1,-1", nbt.ByteArray([]int8{1, -1}), nil},
		{nbt.KindByteArray, "1,200", nbt.Value{}, nbt.ErrKindOverflow},
		{nbt.KindLongArray, "", nbt.LongArray(nil), nil},
		{nbt.KindCompound, "{}", nbt.Value{}, nbt.ErrIncompatibleCoercion},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := parseValue(tt.kind, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s %s", got.Kind(), got)
		})
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useColor("always", &buf))
	assert.False(t, useColor("never", os.Stdout))
	assert.False(t, useColor("auto", &buf))
}

func TestDiffCommand(t *testing.T) {
	f := newFixture(t)

	copyPath := filepath.Join(f.dir, "copy.dat")
	_, err := f.run(t, "convert", f.levelPath, copyPath, "--compression", "none")
	require.NoError(t, err)

	out, err := f.run(t, "diff", f.levelPath, copyPath)
	require.NoError(t, err)
	assert.Empty(t, out, "compression alone is not a difference")

	_, err = f.run(t, "set", copyPath, "Data.SpawnY", "80")
	require.NoError(t, err)

	out, err = f.run(t, "diff", f.levelPath, copyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "-    TAG_Int('SpawnY'): 64\n")
	assert.Contains(t, out, "+    TAG_Int('SpawnY'): 80\n")
	assert.Contains(t, out, "     TAG_String('LevelName'): 'Survival'\n")

	_, err = f.run(t, "diff", "--exit-code", f.levelPath, copyPath)
	assert.ErrorIs(t, err, errTreesDiffer)
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "export", f.levelPath, "Data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"LevelName": "Survival", "SpawnY": 64, "Pos": [0.5, 64, -12.25]}`, out)

	out, err = f.run(t, "export", "-f", "yaml", f.levelPath, "Data.Pos")
	require.NoError(t, err)
	assert.Equal(t, "- 0.5\n- 64\n- -12.25\n", out)

	out, err = f.run(t, "export", "-f", "yaml", f.levelPath, "Data")
	require.NoError(t, err)
	assert.Equal(t, "LevelName: Survival\nSpawnY: 64\nPos:\n    - 0.5\n    - 64\n    - -12.25\n", out, "entries keep file order")

	out, err = f.run(t, "export", "-f", "cbor", f.levelPath)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, cbor.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "Data")

	_, err = f.run(t, "export", "-f", "xml", f.levelPath)
	assert.Error(t, err)
}
