package imagestore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := New(dir)
	require.NoError(t, err)

	name, path, err := s.Save("Foto da Praia.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}\.png$`), name)
	assert.Equal(t, filepath.Join(dir, name), path)

	data, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestNewName_DefaultsExtension(t *testing.T) {
	assert.True(t, strings.HasSuffix(newName("blob"), ".jpg"))
	assert.NotEqual(t, newName("a.jpg"), newName("a.jpg"))
}

func TestStore_ReadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(filepath.Join(s.Dir, "nope.jpg"))
	assert.Error(t, err)
}

func stubNames(t *testing.T, names ...string) {
	t.Helper()
	orig := newName
	i := 0
	newName = func(string) string {
		n := names[i]
		if i < len(names)-1 {
			i++
		}
		return n
	}
	t.Cleanup(func() { newName = orig })
}

func TestStore_SaveRetriesOnNameCollision(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	existing := filepath.Join(s.Dir, "aaaaaaaa.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("first upload"), 0o644))

	stubNames(t, "aaaaaaaa.jpg", "bbbbbbbb.jpg")

	name, path, err := s.Save("photo.jpg", strings.NewReader("second upload"))
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb.jpg", name)
	assert.Equal(t, filepath.Join(s.Dir, "bbbbbbbb.jpg"), path)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "first upload", string(data))
}

func TestStore_SaveGivesUpAfterRepeatedCollisions(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	existing := filepath.Join(s.Dir, "aaaaaaaa.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("first upload"), 0o644))

	stubNames(t, "aaaaaaaa.jpg")

	_, _, err = s.Save("photo.jpg", strings.NewReader("second upload"))
	assert.ErrorIs(t, err, os.ErrExist)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "first upload", string(data))
}
