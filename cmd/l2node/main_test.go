package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRunDryRunPrintsGenesisConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-dry-run", "-chain-id=9"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	var decoded map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON output: %v", err)
	}
	if decoded["chain_id"].(float64) != 9 {
		t.Fatalf("expected chain_id 9 in output, got %v", decoded["chain_id"])
	}
}

func TestRunStartsAndReportsState(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-datadir=" + dir, "-chain-id=1"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("l2node started")) {
		t.Fatalf("expected startup message, got %q", stdout.String())
	}
}

func TestRunRejectsBadGenesisFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"-genesis=" + path}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-not-a-flag"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit 2 on flag parse error, got %d", code)
	}
}
