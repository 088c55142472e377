package services

import (
	"context"
	"log"
	"sync"
	"time"

	"rfp-portal/internal/models"
)

// SaveState is the autosave status surfaced to the client. Saved and Error
// are transient: after the display window they revert to Idle so repeated
// saves stay visually distinguishable.
type SaveState string

const (
	SaveIdle   SaveState = "idle"
	SaveSaving SaveState = "saving"
	SaveSaved  SaveState = "saved"
	SaveError  SaveState = "error"
)

// SaveStatus is a snapshot of one vendor's autosave state.
type SaveStatus struct {
	State       SaveState  `json:"state"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// draftSaver is the slice of the draft store the scheduler needs.
type draftSaver interface {
	Save(ctx context.Context, vendorID uint, content models.DraftContent) (*models.Draft, error)
}

// AutosaveScheduler decouples "the vendor is typing" from "a save happens".
// Each content change arms (or re-arms) a single debounce timer per vendor;
// only the content present when the window elapses is written. An explicit
// flush supersedes whatever is pending, and a newer save always supersedes an
// older in-flight one: the store is last-write-wins, so the scheduler's job
// is to never let a stale save overwrite the outcome of a newer one in the
// state it reports.
type AutosaveScheduler struct {
	store    draftSaver
	debounce time.Duration
	display  time.Duration

	mu      sync.Mutex
	entries map[uint]*autosaveEntry
}

type autosaveEntry struct {
	timer        *time.Timer
	displayTimer *time.Timer
	pending      *models.DraftContent
	seq          uint64
	state        SaveState
	lastError    error
	lastSavedAt  *time.Time
}

// NewAutosaveScheduler builds a scheduler with the given debounce window and
// transient-state display window.
func NewAutosaveScheduler(store draftSaver, debounce, display time.Duration) *AutosaveScheduler {
	return &AutosaveScheduler{
		store:    store,
		debounce: debounce,
		display:  display,
		entries:  make(map[uint]*autosaveEntry),
	}
}

// NoteChange records a content mutation and re-arms the vendor's debounce
// timer, collapsing bursts of edits into one write. Structurally empty
// content cancels the pending save instead of persisting an empty draft.
func (s *AutosaveScheduler) NoteChange(vendorID uint, content models.DraftContent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entry(vendorID)
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	if content.IsEmpty() {
		entry.pending = nil
		return
	}

	copied := content
	entry.pending = &copied
	entry.timer = time.AfterFunc(s.debounce, func() {
		s.fire(vendorID)
	})
}

// Flush performs an immediate save, superseding any pending debounce. Used
// on step navigation and explicit "Save Draft" actions so those writes land
// in the order the vendor performed them.
func (s *AutosaveScheduler) Flush(ctx context.Context, vendorID uint, content models.DraftContent) error {
	s.mu.Lock()
	entry := s.entry(vendorID)
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	entry.pending = nil
	if content.IsEmpty() {
		s.mu.Unlock()
		return nil
	}
	entry.seq++
	seq := entry.seq
	s.setStateLocked(entry, SaveSaving, nil, nil)
	s.mu.Unlock()

	draft, err := s.store.Save(ctx, vendorID, content)
	s.complete(vendorID, seq, draft, err)
	return err
}

// Status returns the vendor's current autosave snapshot.
func (s *AutosaveScheduler) Status(vendorID uint) SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[vendorID]
	if !ok {
		return SaveStatus{State: SaveIdle}
	}
	status := SaveStatus{State: entry.state, LastSavedAt: entry.lastSavedAt}
	if entry.state == SaveError && entry.lastError != nil {
		status.LastError = entry.lastError.Error()
	}
	return status
}

// Forget drops the vendor's entry and cancels any pending timer. Called after
// submit or discard, when the draft no longer exists.
func (s *AutosaveScheduler) Forget(vendorID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[vendorID]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	if entry.displayTimer != nil {
		entry.displayTimer.Stop()
	}
	delete(s.entries, vendorID)
}

// fire runs when a debounce window elapses without further edits.
func (s *AutosaveScheduler) fire(vendorID uint) {
	s.mu.Lock()
	entry, ok := s.entries[vendorID]
	if !ok || entry.pending == nil {
		s.mu.Unlock()
		return
	}
	content := *entry.pending
	entry.pending = nil
	entry.timer = nil
	entry.seq++
	seq := entry.seq
	s.setStateLocked(entry, SaveSaving, nil, nil)
	s.mu.Unlock()

	draft, err := s.store.Save(context.Background(), vendorID, content)
	s.complete(vendorID, seq, draft, err)
}

// complete records a save outcome unless a newer save superseded it while it
// was in flight.
func (s *AutosaveScheduler) complete(vendorID uint, seq uint64, draft *models.Draft, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[vendorID]
	if !ok || entry.seq != seq {
		return
	}
	if err != nil {
		log.Printf("autosave failed for vendor %d: %v", vendorID, err)
		s.setStateLocked(entry, SaveError, err, nil)
		return
	}
	savedAt := draft.LastSavedAt
	s.setStateLocked(entry, SaveSaved, nil, &savedAt)
}

// setStateLocked moves the entry to the given state and, for the transient
// Saved/Error states, arms the reversion timer back to Idle.
func (s *AutosaveScheduler) setStateLocked(entry *autosaveEntry, state SaveState, err error, savedAt *time.Time) {
	if entry.displayTimer != nil {
		entry.displayTimer.Stop()
		entry.displayTimer = nil
	}
	entry.state = state
	entry.lastError = err
	if savedAt != nil {
		entry.lastSavedAt = savedAt
	}
	if state != SaveSaved && state != SaveError {
		return
	}
	seq := entry.seq
	entry.displayTimer = time.AfterFunc(s.display, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e, ok := s.entriesLookup(entry); ok && e.seq == seq && (e.state == SaveSaved || e.state == SaveError) {
			e.state = SaveIdle
		}
	})
}

// entriesLookup finds the map entry matching the given pointer. The display
// timer captures the entry, but Forget may have replaced it in the interim.
func (s *AutosaveScheduler) entriesLookup(entry *autosaveEntry) (*autosaveEntry, bool) {
	for _, e := range s.entries {
		if e == entry {
			return e, true
		}
	}
	return nil, false
}

func (s *AutosaveScheduler) entry(vendorID uint) *autosaveEntry {
	entry, ok := s.entries[vendorID]
	if !ok {
		entry = &autosaveEntry{state: SaveIdle}
		s.entries[vendorID] = entry
	}
	return entry
}
