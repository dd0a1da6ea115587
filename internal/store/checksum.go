package store

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// VerifyChecksum validates a raw capture file against its md5 sidecar
// (`<file>.md5sum`, first 32 hex characters). A mismatch means the download
// is corrupted and the file must not be ingested.
func VerifyChecksum(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}
	got := hex.EncodeToString(h.Sum(nil))

	sidecar, err := os.Open(path + ".md5sum")
	if err != nil {
		return fmt.Errorf("open checksum sidecar: %w", err)
	}
	defer sidecar.Close()

	line, err := bufio.NewReader(sidecar).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read checksum sidecar: %w", err)
	}
	if len(line) < 32 {
		return fmt.Errorf("checksum sidecar for %s too short", path)
	}
	want := line[:32]

	if got != want {
		return fmt.Errorf("checksum mismatch for %s: got %s, want %s", path, got, want)
	}
	return nil
}
