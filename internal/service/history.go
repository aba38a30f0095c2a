package service

import (
	"encoding/json"
	"fmt"

	"sketchpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// History: snapshot-based linear undo/redo
// ─────────────────────────────────────────────────────────────

// DefaultHistoryCapacity bounds the past stack when the config does not say otherwise.
const DefaultHistoryCapacity = 100

// History keeps two stacks of full Document snapshots, encoded as JSON.
// Both slices are ordered oldest→newest, so the top of each stack is its last entry.
type History struct {
	past     [][]byte
	future   [][]byte
	capacity int // 0 = unbounded
}

// NewHistory creates an empty History. capacity <= 0 means unbounded.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{capacity: capacity}
}

// Record pushes the pre-mutation document onto the past stack and drops
// the future stack. Must be called before the mutation is applied.
func (h *History) Record(doc domain.Document) error {
	snap, err := encodeSnapshot(doc)
	if err != nil {
		return err
	}
	h.pushPast(snap)
	h.future = nil
	return nil
}

// Undo returns the previous document and stashes current for redo.
// ok is false when there is nothing to undo.
func (h *History) Undo(current domain.Document) (domain.Document, bool) {
	if len(h.past) == 0 {
		return current, false
	}
	cur, err := encodeSnapshot(current)
	if err != nil {
		return current, false
	}
	prev, err := decodeSnapshot(h.past[len(h.past)-1])
	if err != nil {
		return current, false
	}
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, cur)
	return prev, true
}

// Redo returns the most recently undone document and stashes current for undo.
// ok is false when there is nothing to redo.
func (h *History) Redo(current domain.Document) (domain.Document, bool) {
	if len(h.future) == 0 {
		return current, false
	}
	cur, err := encodeSnapshot(current)
	if err != nil {
		return current, false
	}
	next, err := decodeSnapshot(h.future[len(h.future)-1])
	if err != nil {
		return current, false
	}
	h.future = h.future[:len(h.future)-1]
	h.pushPast(cur)
	return next, true
}

// Clear drops both stacks. Used on session load and reset.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the sizes of the past and future stacks.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

// pushPast appends to the past stack, evicting the oldest entries over capacity.
func (h *History) pushPast(snap []byte) {
	h.past = append(h.past, snap)
	if h.capacity > 0 && len(h.past) > h.capacity {
		drop := len(h.past) - h.capacity
		h.past = append([][]byte(nil), h.past[drop:]...)
	}
}

func encodeSnapshot(doc domain.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return doc, nil
}
