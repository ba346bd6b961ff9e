package storage_test

import (
	"errors"
	"testing"

	"github.com/haierkeys/fast-note-keeper/pkg/code"
	"github.com/haierkeys/fast-note-keeper/pkg/storage"
	"github.com/haierkeys/fast-note-keeper/pkg/storage/local_fs"
)

func TestNewClient_Local(t *testing.T) {
	cfg := &storage.Config{
		Type:      storage.LOCAL,
		IsEnabled: true,
		SavePath:  t.TempDir(),
	}

	client, err := storage.NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create local client: %v", err)
	}

	if _, ok := client.(*local_fs.LocalFS); !ok {
		t.Fatal("Client is not *local_fs.LocalFS")
	}
}

func TestNewClient_Invalid(t *testing.T) {
	_, err := storage.NewClient(&storage.Config{Type: "oss", IsEnabled: true}, nil)
	if !errors.Is(err, code.ErrorInvalidStorageType) {
		t.Fatalf("expected ErrorInvalidStorageType, got %v", err)
	}

	_, err = storage.NewClient(nil, nil)
	if !errors.Is(err, code.ErrorInvalidStorageType) {
		t.Fatalf("expected ErrorInvalidStorageType for nil config, got %v", err)
	}
}

func TestNewClient_Disabled(t *testing.T) {
	_, err := storage.NewClient(&storage.Config{Type: storage.LOCAL}, nil)
	if !errors.Is(err, code.ErrorStorageDisabled) {
		t.Fatalf("expected ErrorStorageDisabled, got %v", err)
	}
}
