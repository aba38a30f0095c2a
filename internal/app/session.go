package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"sketchpad/internal/config"
	"sketchpad/internal/domain"
	"sketchpad/internal/service"
	"sketchpad/internal/storage"
)

// Session owns the editing core and serialises every call into it.
// The Wails bindings, the MCP server, autosave and the watcher each run on
// their own goroutines; all of them go through mu.
type Session struct {
	mu sync.Mutex

	docs     *service.DocumentService
	canvas   *service.CanvasService
	tools    *service.ToolService
	sessions *service.SessionService
	store    domain.KVStore
}

// openSession opens the configured store and loads the saved session into a
// fresh editing core. A session that cannot be loaded starts from defaults.
func openSession(ctx context.Context, cfg config.Config, emitter service.EventEmitter) (*Session, error) {
	store, err := storage.Open(ctx, storageOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	s := newSession(ctx, store, cfg.Storage.Key, cfg.HistoryCapacity(), emitter)
	s.Load(ctx)
	return s, nil
}

func newSession(ctx context.Context, store domain.KVStore, key string, historyCapacity int, emitter service.EventEmitter) *Session {
	return &Session{
		docs:     service.NewDocumentService(ctx, service.NewHistory(historyCapacity), emitter),
		canvas:   service.NewCanvasService(ctx, emitter),
		tools:    service.NewToolService(ctx, emitter),
		sessions: service.NewSessionService(store, key),
		store:    store,
	}
}

func storageOptions(cfg config.Config) storage.Options {
	return storage.Options{
		Driver:     cfg.Storage.Driver,
		DSN:        cfg.Storage.DSN,
		Database:   cfg.Storage.Database,
		Collection: cfg.Storage.Collection,
	}
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Locker exposes the session lock to collaborators that hold it across calls.
func (s *Session) Locker() sync.Locker { return &s.mu }

// Load restores the saved session, or the defaults when there is none.
// Reports whether a saved session was found.
func (s *Session) Load(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions.Load(ctx)
	s.install(state)
	return ok
}

// Save writes the current session to the store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Reload installs the stored session when another process has changed it.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

// Close releases the store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// State snapshots the persisted part of the session.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() domain.SessionState {
	return domain.SessionState{
		Document: s.docs.Document(),
		Canvas:   s.canvas.State(),
		Tools:    s.tools.State(),
	}
}

func (s *Session) saveLocked(ctx context.Context) error {
	return s.sessions.Save(ctx, s.stateLocked())
}

// reloadLocked keeps local edits that were not saved yet: the next save
// overwrites the external change instead of the other way round.
func (s *Session) reloadLocked(ctx context.Context) (bool, error) {
	if s.sessions.Unsaved(s.stateLocked()) {
		log.Printf("[SESSION] unsaved local edits, skipping reload of %q", s.sessions.Key())
		return false, nil
	}
	state, changed, err := s.sessions.Reload(ctx)
	if err != nil || !changed {
		return false, err
	}
	log.Printf("[SESSION] reloaded %q after an external change", s.sessions.Key())
	s.install(state)
	return true, nil
}

// install replaces the core state; undo history starts over.
func (s *Session) install(state domain.SessionState) {
	doc := state.Document
	s.docs.Initialize(&doc)
	s.canvas.Restore(state.Canvas)
	s.tools.Restore(state.Tools)
	s.sessions.MarkSynced(s.stateLocked())
}
