package local_fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalFS_SendContent(t *testing.T) {
	tempDir := t.TempDir()

	client, err := NewClient(&Config{SavePath: tempDir, CustomPath: "backup"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	filename := "notes-20240101100000.json"
	content := []byte(`{"active":[],"archive":[]}`)
	modTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	savedPath, err := client.SendContent(context.Background(), filename, content, modTime)
	if err != nil {
		t.Fatalf("SendContent failed: %v", err)
	}
	if want := filepath.Join(tempDir, "backup", filename); savedPath != want {
		t.Errorf("saved path = %s, want %s", savedPath, want)
	}

	savedContent, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(savedContent, content) {
		t.Errorf("Content mismatch: expected %s, got %s", content, string(savedContent))
	}

	fileInfo, err := os.Stat(savedPath)
	if err != nil {
		t.Fatalf("Failed to stat saved file: %v", err)
	}
	// Windows/Linux precision differs
	if diff := fileInfo.ModTime().Sub(modTime); diff < -time.Second || diff > time.Second {
		t.Errorf("ModTime mismatch: expected %v, got %v (diff %v)", modTime, fileInfo.ModTime(), diff)
	}
}

func TestLocalFS_ListAndDelete(t *testing.T) {
	client, err := NewClient(&Config{SavePath: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	ctx := context.Background()

	names, err := client.List(ctx)
	if err != nil || len(names) != 0 {
		t.Fatalf("List on empty root = %v, %v", names, err)
	}

	for _, n := range []string{"b.json", "a.json", "c.json"} {
		if _, err := client.SendContent(ctx, n, []byte("{}"), time.Time{}); err != nil {
			t.Fatalf("SendContent %s: %v", n, err)
		}
	}

	names, err = client.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 3 || names[0] != "a.json" || names[2] != "c.json" {
		t.Fatalf("unexpected listing %v", names)
	}

	if err := client.Delete(ctx, "b.json"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := client.Delete(ctx, "missing.json"); err != nil {
		t.Fatalf("Delete of a missing key should be a no-op, got %v", err)
	}

	names, _ = client.List(ctx)
	if len(names) != 2 {
		t.Fatalf("expected 2 files after delete, got %v", names)
	}
}

func TestLocalFS_RejectsEscapingKeys(t *testing.T) {
	client, err := NewClient(&Config{SavePath: t.TempDir(), CustomPath: "backup"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if _, err := client.SendContent(context.Background(), "../outside.json", []byte("{}"), time.Time{}); err == nil {
		t.Fatal("expected error for key escaping the save path")
	}
}
