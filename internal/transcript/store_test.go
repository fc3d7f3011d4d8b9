package transcript_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/transcript"

	"go.uber.org/zap"
)

func newStore(t *testing.T) (*transcript.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	return transcript.NewFileStore(dir, zap.NewNop()), dir
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, _ := newStore(t)

	msgs := []domain.ChatMessage{
		{ID: "1", Role: domain.RoleUser, Content: "what is the vat total?"},
		{ID: "2", Role: domain.RoleAssistant, Content: "VAT total: 17.50"},
	}
	store.Save("09", msgs)

	got := store.Load("09")
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0] != msgs[0] || got[1] != msgs[1] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestFileStore_MissingEntryIsEmpty(t *testing.T) {
	store, _ := newStore(t)
	if got := store.Load("12"); got == nil || len(got) != 0 {
		t.Errorf("missing entry: got %v, want empty non-nil slice", got)
	}
}

func TestFileStore_MalformedContentIsEmpty(t *testing.T) {
	store, dir := newStore(t)

	// Non-array JSON content must degrade to empty, not error.
	path := filepath.Join(dir, "chat-09.json")
	if err := os.WriteFile(path, []byte(`{"oops": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("09"); len(got) != 0 {
		t.Errorf("malformed content: got %v, want empty", got)
	}

	// Plain garbage too.
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("09"); len(got) != 0 {
		t.Errorf("garbage content: got %v, want empty", got)
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	store.Save("09", []domain.ChatMessage{{ID: "1", Role: domain.RoleUser, Content: "hi"}})
	store.Delete("09")
	store.Delete("09") // second delete must not blow up
	if got := store.Load("09"); len(got) != 0 {
		t.Errorf("after delete: got %v, want empty", got)
	}
}

func TestFileStore_KeySanitization(t *testing.T) {
	store, dir := newStore(t)
	store.Save("../evil", []domain.ChatMessage{{ID: "1", Role: domain.RoleUser, Content: "x"}})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file inside store dir, got %d", len(entries))
	}
	if got := store.Load("../evil"); len(got) != 1 {
		t.Errorf("sanitized key should round trip, got %v", got)
	}
}
