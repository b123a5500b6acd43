package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data", "portal")
	d, err := Mount(root)
	require.NoError(t, err)
	assert.Equal(t, root, d.Root())

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMountRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Mount(file)
	assert.Error(t, err)

	_, err = Mount("")
	assert.Error(t, err)
}

func TestWriteReadAppendRemove(t *testing.T) {
	d, err := Mount(t.TempDir())
	require.NoError(t, err)

	_, err = d.Read(RecordLog)
	assert.True(t, errors.Is(err, ErrNotExist))
	assert.False(t, d.Exists(RecordLog))

	require.NoError(t, d.Append(RecordLog, []byte("one\n")))
	require.NoError(t, d.Append(RecordLog, []byte("two\n")))
	data, err := d.Read(RecordLog)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	require.NoError(t, d.Write(RecordLog, []byte("replaced")))
	data, err = d.Read(RecordLog)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
	assert.True(t, d.Exists(RecordLog))

	require.NoError(t, d.Remove(RecordLog))
	assert.False(t, d.Exists(RecordLog))
	require.NoError(t, d.Remove(RecordLog))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	d, err := Mount(root)
	require.NoError(t, err)
	require.NoError(t, d.Write(RecordConfig, []byte("a\nb\n")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, RecordConfig, entries[0].Name())
}

func TestInvalidRecordName(t *testing.T) {
	d, err := Mount(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape", "a/b", `a\b`} {
		assert.Error(t, d.Write(name, []byte("x")), name)
		_, err := d.Read(name)
		assert.Error(t, err, name)
		assert.False(t, d.Exists(name), name)
	}
}
