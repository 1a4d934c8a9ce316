package storage

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	key, err := store.Write(context.Background(), "jobs/abc/01.png", []byte("payload"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "jobs/abc/01.png" {
		t.Fatalf("key = %q", key)
	}

	data, err := store.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("read back %q", data)
	}

	if err := store.Remove(context.Background(), key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Read(context.Background(), key); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read after remove = %v, want ErrNotExist", err)
	}
	if err := store.Remove(context.Background(), key); err != nil {
		t.Fatalf("remove missing key should be nil, got %v", err)
	}
}

func TestFileStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "../escape.txt", "a/../../b"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}
