package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shopfront/internal/models"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}

	user := models.User{Username: "alice", Email: "alice@example.com"}
	if err := storage.Save("tok-1", user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("expected token 'tok-1', got %q", token)
	}
	if loaded.Username != "alice" || loaded.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", loaded)
	}
}

func TestFileStorage_EmptyIsNoSession(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if _, _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestFileStorage_HalfSessionIsNoSession(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := storage.Save("tok-1", models.User{Username: "bob"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// a record with only one of the two keys is treated as absent
	if err := os.Remove(filepath.Join(dir, userFile)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession for token without user, got %v", err)
	}
}

func TestFileStorage_ClearIsIdempotent(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := storage.Save("tok-1", models.User{Username: "bob"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Errorf("second Clear must not fail: %v", err)
	}
	if _, _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after Clear, got %v", err)
	}
}

func TestFileStorage_OverwriteWins(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := storage.Save("tok-1", models.User{Username: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := storage.Save("tok-2", models.User{Username: "second"}); err != nil {
		t.Fatal(err)
	}

	token, user, err := storage.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok-2" || user.Username != "second" {
		t.Errorf("expected last write to win, got token %q user %+v", token, user)
	}
}
