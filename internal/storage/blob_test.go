package storage

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
)

func testBlobStore(t *testing.T) *FileBlobStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewFileBlobStore(t.TempDir(), logger)
}

func TestFileBlobStore_RoundTrip(t *testing.T) {
	bs := testBlobStore(t)
	ctx := context.Background()

	payload := []byte("fake png bytes")
	if err := bs.Upload(ctx, "images/ward.png", payload); err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, err := bs.Download(ctx, "images/ward.png")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("blob bytes differ: %q", got)
	}
}

func TestFileBlobStore_MissingReturnsNil(t *testing.T) {
	bs := testBlobStore(t)

	got, err := bs.Download(context.Background(), "images/nothing.png")
	if err != nil {
		t.Fatalf("expected no error for missing blob, got %v", err)
	}
	if got != nil {
		t.Error("expected nil bytes for missing blob")
	}
}

func TestFileBlobStore_Delete(t *testing.T) {
	bs := testBlobStore(t)
	ctx := context.Background()

	if err := bs.Upload(ctx, "a.svg", []byte("<svg/>")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := bs.Delete(ctx, "a.svg"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := bs.Download(ctx, "a.svg"); got != nil {
		t.Error("blob should be gone after delete")
	}

	// Deleting a missing blob is not an error.
	if err := bs.Delete(ctx, "a.svg"); err != nil {
		t.Errorf("double delete should be a no-op, got %v", err)
	}
}

func TestFileBlobStore_RejectsTraversal(t *testing.T) {
	bs := testBlobStore(t)
	ctx := context.Background()

	if err := bs.Upload(ctx, "../escape.txt", []byte("x")); err == nil {
		t.Error("expected traversal path to be rejected")
	}
	if _, err := bs.Download(ctx, ""); err == nil {
		t.Error("expected empty path to be rejected")
	}
}
