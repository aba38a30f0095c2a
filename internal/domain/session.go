package domain

import "context"

// SessionState is what the persistence adapter saves and restores.
// Undo history is deliberately absent.
type SessionState struct {
	Document Document  `json:"document"`
	Canvas   Canvas    `json:"canvas"`
	Tools    ToolState `json:"tools"`
}

// DefaultSession returns the state used when nothing was saved or loading failed.
func DefaultSession() SessionState {
	return SessionState{
		Document: NewDocument(),
		Canvas:   NewCanvas(),
		Tools:    NewToolState(),
	}
}

// Repair fixes up a decoded session so that every invariant holds.
func (s *SessionState) Repair() {
	s.Document.Repair()
	s.Canvas.Zoom = ClampZoom(s.Canvas.Zoom)
	s.Tools.Repair()
}

// KVStore is a key-value byte store backing the persistence adapter.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
