package store

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCapture(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func md5Hex(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

func TestVerifyChecksum(t *testing.T) {
	dir := t.TempDir()
	content := []byte("capture payload")

	t.Run("matching sidecar", func(t *testing.T) {
		path := writeCapture(t, dir, "ok.gz", content)
		writeCapture(t, dir, "ok.gz.md5sum", []byte(md5Hex(content)+"  ok.gz\n"))
		assert.NoError(t, VerifyChecksum(path))
	})

	t.Run("mismatching sidecar", func(t *testing.T) {
		path := writeCapture(t, dir, "bad.gz", content)
		writeCapture(t, dir, "bad.gz.md5sum", []byte(md5Hex([]byte("other"))+"\n"))
		assert.Error(t, VerifyChecksum(path))
	})

	t.Run("missing sidecar", func(t *testing.T) {
		path := writeCapture(t, dir, "orphan.gz", content)
		assert.Error(t, VerifyChecksum(path))
	})

	t.Run("truncated sidecar", func(t *testing.T) {
		path := writeCapture(t, dir, "short.gz", content)
		writeCapture(t, dir, "short.gz.md5sum", []byte("abc"))
		assert.Error(t, VerifyChecksum(path))
	})
}
