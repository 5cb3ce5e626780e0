package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadAttachment(t *testing.T) {
	// Minimal PNG signature so content sniffing sees an image.
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	path := writeTempFile(t, "pic.png", png)

	att, err := LoadAttachment(path)
	require.NoError(t, err)
	require.Equal(t, "pic.png", att.Name)
	require.Equal(t, "image/png", att.ContentType)
	require.Equal(t, png, att.Data)
}

func TestLoadAttachment_Missing(t *testing.T) {
	_, err := LoadAttachment(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
