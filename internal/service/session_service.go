package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"sketchpad/internal/domain"
	"sketchpad/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Session Service: persistence adapter over a KV byte store
// ─────────────────────────────────────────────────────────────
//
// The session (document + canvas + tools) is stored as one JSON value under a
// single key. History is never persisted. Failures are reported to the caller
// and loading falls back to the default session.

// DefaultSessionKey is the store key used when the config does not name one.
const DefaultSessionKey = "editor-state"

// SessionService saves and restores SessionState.
type SessionService struct {
	store domain.KVStore
	key   string

	// lastSynced is the encoded state last written or read, used to tell
	// external writes apart from our own.
	lastSynced []byte
	// local is the encoded core state at the last save or install; a core
	// state that encodes differently has unsaved edits.
	local []byte
}

// NewSessionService creates a SessionService. An empty key uses DefaultSessionKey.
func NewSessionService(store domain.KVStore, key string) *SessionService {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionService{store: store, key: key}
}

// Key returns the store key the session lives under.
func (s *SessionService) Key() string { return s.key }

// Save encodes state and writes it to the store.
func (s *SessionService) Save(ctx context.Context, state domain.SessionState) error {
	if s.store == nil {
		return fmt.Errorf("save session: no store")
	}
	data, err := EncodeSession(state)
	if err != nil {
		return err
	}
	if bytes.Equal(data, s.lastSynced) {
		return nil
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.lastSynced = data
	s.local = data
	return nil
}

// Load reads the saved session. ok is false, and the default session is
// returned, when nothing was saved or the saved value cannot be decoded.
func (s *SessionService) Load(ctx context.Context) (domain.SessionState, bool) {
	if s.store == nil {
		return domain.DefaultSession(), false
	}
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[SESSION] load %q: %v", s.key, err)
		}
		return domain.DefaultSession(), false
	}
	state, err := DecodeSession(data)
	if err != nil {
		log.Printf("[SESSION] decode %q: %v", s.key, err)
		return domain.DefaultSession(), false
	}
	s.lastSynced = data
	return state, true
}

// Reload returns the stored session when it differs from what this service
// last saved or loaded. changed is false when the stored value is ours.
func (s *SessionService) Reload(ctx context.Context) (state domain.SessionState, changed bool, err error) {
	if s.store == nil {
		return domain.SessionState{}, false, nil
	}
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.SessionState{}, false, nil
		}
		return domain.SessionState{}, false, fmt.Errorf("reload session: %w", err)
	}
	if bytes.Equal(data, s.lastSynced) {
		return domain.SessionState{}, false, nil
	}
	state, err = DecodeSession(data)
	if err != nil {
		return domain.SessionState{}, false, err
	}
	s.lastSynced = data
	return state, true, nil
}

// MarkSynced records state as installed from the store.
func (s *SessionService) MarkSynced(state domain.SessionState) {
	data, err := EncodeSession(state)
	if err != nil {
		log.Printf("[SESSION] mark synced: %v", err)
		return
	}
	s.local = data
}

// Unsaved reports whether state differs from what was last saved or installed.
func (s *SessionService) Unsaved(state domain.SessionState) bool {
	data, err := EncodeSession(state)
	if err != nil {
		return true
	}
	return !bytes.Equal(data, s.local)
}

// EncodeSession serialises state as JSON.
func EncodeSession(state domain.SessionState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// DecodeSession parses a saved session and repairs it. Fields missing from the
// saved value keep their defaults.
func DecodeSession(data []byte) (domain.SessionState, error) {
	state := domain.DefaultSession()
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.DefaultSession(), fmt.Errorf("decode session: %w", err)
	}
	state.Repair()
	return state, nil
}
