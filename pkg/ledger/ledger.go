package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/filesystem"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/utils"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/workspace"
)

const (
	metadataFile     = "metadata.json"
	priorFile        = "before"
	appliedFile      = "after"
	metadataVersion  = 1
	defaultRetention = 20
)

// ErrNoHistory is returned when an undo is requested with no entries left.
var ErrNoHistory = errors.New("no history to restore")

// Entry is one committed, reversible operation.
type Entry struct {
	Version       int                 `json:"version"`
	ID            int64               `json:"id"`
	Target        string              `json:"target"`
	OperationKind types.OperationKind `json:"operation_kind"`
	Timestamp     time.Time           `json:"timestamp"`
	Description   string              `json:"description"`
	ContentHash   string              `json:"content_hash"` // hash of the applied content, for audit
}

// Restored is the result of an undo operation.
type Restored struct {
	EntryID         int64
	Target          string
	RestoredContent string
}

// Ledger is the durable, ordered record of committed reversible operations
// for one project scope. Entries are whole-content snapshots, never deltas,
// so restore is exact. History is bounded: the oldest entries beyond the
// retention window are discarded.
type Ledger struct {
	mu          sync.Mutex
	projectRoot string
	dir         string
	retention   int
	nextID      int64
	logger      *utils.Logger
}

// Open loads (or initializes) the ledger for a project root. The scope key
// is derived from the root path, so history survives restarts.
func Open(projectRoot string, retention int) (*Ledger, error) {
	if retention <= 0 {
		retention = defaultRetention
	}
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	dir := filepath.Join(abs, ".flux", "ledger", workspace.ScopeID(abs))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	l := &Ledger{
		projectRoot: abs,
		dir:         dir,
		retention:   retention,
		logger:      utils.GetLogger(),
	}
	ids, err := l.entryIDs()
	if err != nil {
		return nil, err
	}
	l.nextID = 1
	if len(ids) > 0 {
		l.nextID = ids[len(ids)-1] + 1
	}
	return l, nil
}

// Dir returns the ledger's storage directory.
func (l *Ledger) Dir() string { return l.dir }

// Record appends an entry snapshotting the state before a write, trimming
// history beyond the retention window. Returns the new entry id.
func (l *Ledger) Record(target string, kind types.OperationKind, priorContent, newContent, description string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	entryDir := l.entryDir(id)
	if err := os.MkdirAll(entryDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create ledger entry directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(entryDir, priorFile), []byte(priorContent), 0644); err != nil {
		return 0, fmt.Errorf("failed to save prior content: %w", err)
	}
	if err := os.WriteFile(filepath.Join(entryDir, appliedFile), []byte(newContent), 0644); err != nil {
		return 0, fmt.Errorf("failed to save applied content: %w", err)
	}

	meta := Entry{
		Version:       metadataVersion,
		ID:            id,
		Target:        target,
		OperationKind: kind,
		Timestamp:     time.Now(),
		Description:   description,
		ContentHash:   utils.GenerateContentHash(target, newContent),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ledger metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(entryDir, metadataFile), data, 0644); err != nil {
		return 0, fmt.Errorf("failed to save ledger metadata: %w", err)
	}

	l.nextID++
	l.logger.Logf("Ledger: recorded entry %d for %s (%s)", id, target, kind)

	if err := l.trimLocked(); err != nil {
		l.logger.LogError("ledger trim", err)
	}
	return id, nil
}

// Discard removes an entry outright. The coordinator uses this to take back
// a snapshot whose change was rejected at the approval gate, so a rejected
// confirm never leaves a ledger entry behind.
func (l *Ledger) Discard(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	dir := l.entryDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(dir)
}

// PeekLatest returns the most recent entry without consuming it, or nil
// when the ledger is empty.
func (l *Ledger) PeekLatest() (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids, err := l.entryIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return l.readEntry(ids[len(ids)-1])
}

// RestoreLatest pops the most recent entry and writes its prior content
// back to the target. The write and the entry removal succeed or fail
// together: if removal fails, the write is rolled back.
func (l *Ledger) RestoreLatest() (*Restored, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids, err := l.entryIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoHistory
	}
	id := ids[len(ids)-1]

	entry, err := l.readEntry(id)
	if err != nil {
		return nil, err
	}
	prior, err := os.ReadFile(filepath.Join(l.entryDir(id), priorFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read prior content for entry %d: %w", id, err)
	}

	resolved, err := filesystem.SafeResolvePath(l.projectRoot, entry.Target)
	if err != nil {
		return nil, fmt.Errorf("refusing to restore %s: %w", entry.Target, err)
	}

	// Capture current content so the write can be undone if the entry
	// removal fails; restore must not leave partial state.
	current, err := filesystem.ReadFileIfExists(resolved)
	if err != nil {
		return nil, err
	}

	if err := filesystem.SaveFile(resolved, string(prior)); err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", entry.Target, err)
	}
	if err := os.RemoveAll(l.entryDir(id)); err != nil {
		if undoErr := filesystem.SaveFile(resolved, current); undoErr != nil {
			l.logger.LogError("restore rollback", undoErr)
		}
		return nil, fmt.Errorf("failed to remove ledger entry %d: %w", id, err)
	}

	l.logger.Logf("Ledger: restored entry %d for %s", id, entry.Target)
	return &Restored{
		EntryID:         id,
		Target:          entry.Target,
		RestoredContent: string(prior),
	}, nil
}

// List returns up to limit entries, most recent first. A non-positive
// limit returns everything.
func (l *Ledger) List(limit int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids, err := l.entryIDs()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for i := len(ids) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) >= limit {
			break
		}
		entry, err := l.readEntry(ids[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Len reports how many entries the ledger currently holds.
func (l *Ledger) Len() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids, err := l.entryIDs()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Snapshots returns the before/after content stored with an entry, for
// diff previews in history views.
func (l *Ledger) Snapshots(id int64) (prior, applied string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, err := os.ReadFile(filepath.Join(l.entryDir(id), priorFile))
	if err != nil {
		return "", "", fmt.Errorf("failed to read prior content for entry %d: %w", id, err)
	}
	a, err := os.ReadFile(filepath.Join(l.entryDir(id), appliedFile))
	if err != nil {
		return "", "", fmt.Errorf("failed to read applied content for entry %d: %w", id, err)
	}
	return string(b), string(a), nil
}

func (l *Ledger) entryDir(id int64) string {
	return filepath.Join(l.dir, fmt.Sprintf("%08d", id))
}

func (l *Ledger) entryIDs() ([]int64, error) {
	dirs, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger directory: %w", err)
	}
	var ids []int64
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		id, err := strconv.ParseInt(d.Name(), 10, 64)
		if err != nil {
			continue // not a ledger entry, skip
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (l *Ledger) readEntry(id int64) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(l.entryDir(id), metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for entry %d: %w", id, err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata for entry %d: %w", id, err)
	}
	return &entry, nil
}

func (l *Ledger) trimLocked() error {
	ids, err := l.entryIDs()
	if err != nil {
		return err
	}
	for len(ids) > l.retention {
		if err := os.RemoveAll(l.entryDir(ids[0])); err != nil {
			return err
		}
		l.logger.Logf("Ledger: trimmed entry %d beyond retention window", ids[0])
		ids = ids[1:]
	}
	return nil
}
