package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
)

func TestRecordAndListOrdering(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	first, err := l.Record("a.txt", types.OpCreate, "", "one", "create a.txt")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	second, err := l.Record("a.txt", types.OpReplace, "one", "two", "rewrite a.txt")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if second <= first {
		t.Fatalf("entry ids must be monotonically increasing, got %d then %d", first, second)
	}

	entries, err := l.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second || entries[1].ID != first {
		t.Errorf("expected most recent first, got ids %d, %d", entries[0].ID, entries[1].ID)
	}
	if entries[0].Description != "rewrite a.txt" {
		t.Errorf("unexpected description: %q", entries[0].Description)
	}
	if entries[0].OperationKind != types.OpReplace {
		t.Errorf("unexpected kind: %s", entries[0].OperationKind)
	}
	if entries[0].ContentHash == "" {
		t.Errorf("entry should carry a content hash")
	}
}

func TestListLimit(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := l.Record("f.txt", types.OpReplace, "x", "y", "edit"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	entries, err := l.List(3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries with limit, got %d", len(entries))
	}
}

func TestRetentionTrimsOldest(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 3)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := l.Record("f.txt", types.OpReplace, "x", "y", "edit")
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		ids = append(ids, id)
	}

	n, err := l.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected retention to hold 3 entries, got %d", n)
	}

	entries, err := l.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	// The two oldest ids must be gone, the three newest kept.
	if entries[len(entries)-1].ID != ids[2] {
		t.Errorf("expected oldest surviving entry %d, got %d", ids[2], entries[len(entries)-1].ID)
	}
	if entries[0].ID != ids[4] {
		t.Errorf("expected newest entry %d, got %d", ids[4], entries[0].ID)
	}
}

func TestRestoreLatestReplacedFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(target, []byte("original"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := l.Record("notes.txt", types.OpReplace, "original", "rewritten", "rewrite notes")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := os.WriteFile(target, []byte("rewritten"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	res, err := l.RestoreLatest()
	if err != nil {
		t.Fatalf("RestoreLatest failed: %v", err)
	}
	if res.EntryID != id || res.Target != "notes.txt" {
		t.Errorf("unexpected restore result: %+v", res)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("expected exact prior content, got %q", string(data))
	}

	n, err := l.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("restore must consume the entry, ledger still holds %d", n)
	}
}

func TestRestoreLatestRemovesCreatedFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "fresh.txt")

	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	// Prior content of a CREATE is empty: restoring it removes the file.
	if _, err := l.Record("fresh.txt", types.OpCreate, "", "hello", "create fresh.txt"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := os.WriteFile(target, []byte("hello"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := l.RestoreLatest(); err != nil {
		t.Fatalf("RestoreLatest failed: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("expected created file to be absent after restore")
	}
}

func TestRestoreOrderIsLIFO(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "seq.txt")

	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := l.Record("seq.txt", types.OpCreate, "", "v1", "create"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Record("seq.txt", types.OpReplace, "v1", "v2", "edit"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := os.WriteFile(target, []byte("v2"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := l.RestoreLatest(); err != nil {
		t.Fatalf("first restore failed: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "v1" {
		t.Fatalf("expected v1 after first restore, got %q", string(data))
	}

	if _, err := l.RestoreLatest(); err != nil {
		t.Fatalf("second restore failed: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("expected file absent after unwinding the create")
	}
}

func TestRestoreEmptyLedger(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := l.RestoreLatest(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestPeekLatest(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	entry, err := l.PeekLatest()
	if err != nil {
		t.Fatalf("PeekLatest failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil on empty ledger, got %+v", entry)
	}

	if _, err := l.Record("a.txt", types.OpCreate, "", "x", "create"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	entry, err = l.PeekLatest()
	if err != nil {
		t.Fatalf("PeekLatest failed: %v", err)
	}
	if entry == nil || entry.Target != "a.txt" {
		t.Errorf("unexpected latest entry: %+v", entry)
	}

	// Peek must not consume.
	n, _ := l.Len()
	if n != 1 {
		t.Errorf("peek must not consume entries, got len %d", n)
	}
}

func TestDiscard(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := l.Record("a.txt", types.OpReplace, "x", "y", "edit")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Discard(id); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	n, _ := l.Len()
	if n != 0 {
		t.Errorf("expected empty ledger after discard, got %d", n)
	}
	// Discarding again is a no-op.
	if err := l.Discard(id); err != nil {
		t.Errorf("repeat discard should be a no-op, got %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := l.Record("a.txt", types.OpReplace, "before text", "after text", "edit")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	prior, applied, err := l.Snapshots(id)
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if prior != "before text" || applied != "after text" {
		t.Errorf("unexpected snapshots: %q / %q", prior, applied)
	}
}

func TestReopenContinuesIDs(t *testing.T) {
	root := t.TempDir()
	l, err := Open(root, 20)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first, err := l.Record("a.txt", types.OpCreate, "", "x", "create")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	reopened, err := Open(root, 20)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	second, err := reopened.Record("a.txt", types.OpReplace, "x", "y", "edit")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if second != first+1 {
		t.Errorf("expected ids to continue across reopen, got %d after %d", second, first)
	}
}
