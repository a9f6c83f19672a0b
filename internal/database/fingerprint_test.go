package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a, err := Fingerprint(strings.NewReader("Customer ID,Age\n1,30\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}

	b, err := Fingerprint(strings.NewReader("Customer ID,Age\n1,31\n"))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("different content should give different fingerprints")
	}

	// blake2b-256 of the empty input
	empty, err := Fingerprint(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if empty != "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8" {
		t.Errorf("unexpected digest of empty input: %s", empty)
	}
}

func TestFingerprintFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "Customer ID,Age\n1,30\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	fromFile, err := FingerprintFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fromReader, err := Fingerprint(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if fromFile != fromReader {
		t.Errorf("file and reader fingerprints differ: %s vs %s", fromFile, fromReader)
	}

	if _, err := FingerprintFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
