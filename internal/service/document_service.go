package service

import (
	"context"
	"log"
	"reflect"
	"slices"

	"github.com/google/uuid"

	"sketchpad/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Document Service: the single owner of the editing document
// ─────────────────────────────────────────────────────────────

// Events emitted by the document service.
const (
	EventDocumentChanged  = "document:changed"
	EventSelectionChanged = "document:selection"
	EventClipboardChanged = "document:clipboard"
)

// DocumentChange is the payload of EventDocumentChanged.
type DocumentChange struct {
	Reason  string `json:"reason"`
	CanUndo bool   `json:"canUndo"`
	CanRedo bool   `json:"canRedo"`
}

// DocumentService owns the Document and exposes every mutation as a named call.
// Undoable mutations follow record-then-mutate: the pre-mutation snapshot is
// pushed onto the history before the change is applied.
//
// The service is not safe for concurrent use; callers serialise access.
type DocumentService struct {
	ctx     context.Context
	doc     domain.Document
	history *History
	emitter EventEmitter
	newID   func() string

	// gesture groups a run of mutations into one history entry
	inGesture       bool
	gestureRecorded bool
}

// NewDocumentService creates a DocumentService holding the default document.
func NewDocumentService(ctx context.Context, history *History, emitter EventEmitter) *DocumentService {
	if history == nil {
		history = NewHistory(DefaultHistoryCapacity)
	}
	return &DocumentService{
		ctx:     ctx,
		doc:     domain.NewDocument(),
		history: history,
		emitter: emitter,
		newID:   uuid.NewString,
	}
}

// Document returns a deep copy of the current document.
func (s *DocumentService) Document() domain.Document {
	doc, err := decodeSnapshotOf(s.doc)
	if err != nil {
		log.Printf("[DOCUMENT] copy document: %v", err)
		return s.doc
	}
	return doc
}

// Elements returns copies of the active page's elements in z-order.
func (s *DocumentService) Elements() []domain.Element {
	src := s.doc.Elements()
	out := make([]domain.Element, len(src))
	for i, el := range src {
		out[i] = el.Clone()
	}
	return out
}

// Element returns a copy of the element with the given id on the active page.
func (s *DocumentService) Element(id string) (domain.Element, bool) {
	el, ok := s.doc.Element(id)
	if !ok {
		return domain.Element{}, false
	}
	return el.Clone(), true
}

// Selected returns the selected element id ("" when nothing is selected).
func (s *DocumentService) Selected() string { return s.doc.Selected }

// SelectedElement returns a copy of the selected element.
func (s *DocumentService) SelectedElement() (domain.Element, bool) {
	el, ok := s.doc.SelectedElement()
	if !ok {
		return domain.Element{}, false
	}
	return el.Clone(), true
}

// Pages returns the page list without element payloads.
func (s *DocumentService) Pages() []domain.Page {
	out := make([]domain.Page, len(s.doc.Pages))
	for i, p := range s.doc.Pages {
		out[i] = domain.Page{ID: p.ID, Name: p.Name}
	}
	return out
}

// ActivePage returns the active page id.
func (s *DocumentService) ActivePage() string { return s.doc.ActivePage }

// Clipboard returns a copy of the clipboard element.
func (s *DocumentService) Clipboard() (domain.Element, bool) {
	if s.doc.Clipboard == nil {
		return domain.Element{}, false
	}
	return s.doc.Clipboard.Clone(), true
}

func (s *DocumentService) CanUndo() bool { return s.history.CanUndo() }
func (s *DocumentService) CanRedo() bool { return s.history.CanRedo() }

// History exposes the underlying history manager.
func (s *DocumentService) History() *History { return s.history }

// ── Session lifecycle ─────────────────────────────────────

// Initialize installs a loaded document and clears the history.
// A nil document installs the default one.
func (s *DocumentService) Initialize(doc *domain.Document) {
	if doc == nil {
		s.doc = domain.NewDocument()
	} else {
		s.doc = *doc
		s.doc.Repair()
	}
	s.history.Clear()
	s.inGesture, s.gestureRecorded = false, false
	s.changed("initialize")
}

// ResetDocument replaces the document with the default one ("New File"). Undoable.
func (s *DocumentService) ResetDocument() {
	s.mutate("reset", func(d *domain.Document) {
		*d = domain.NewDocument()
	})
}

// ── Selection ─────────────────────────────────────────────

// Select sets the selection. Selecting the current selection or an id that is
// not on the active page does nothing. An empty id clears the selection.
func (s *DocumentService) Select(id string) {
	if id == s.doc.Selected {
		return
	}
	if id != "" && s.doc.IndexOf(id) < 0 {
		return
	}
	s.doc.Selected = id
	s.emit(EventSelectionChanged, map[string]string{"selectedElement": id})
}

// Deselect clears the selection.
func (s *DocumentService) Deselect() {
	s.Select("")
}

// ── Element mutations ─────────────────────────────────────

// AddElement appends el on top of the active page and selects it.
// An empty id is replaced by a fresh one; an unknown kind or an id already in
// use makes the call a no-op. Returns the id of the added element.
func (s *DocumentService) AddElement(el domain.Element) string {
	if !el.Kind.Valid() || s.doc.Page() == nil {
		return ""
	}
	if el.ID == "" {
		el.ID = s.newID()
	}
	if s.doc.HasID(el.ID) {
		return ""
	}
	el = el.Clone()
	el.Normalize()
	s.mutate("add", func(d *domain.Document) {
		p := d.Page()
		p.Elements = append(p.Elements, el)
		d.Selected = el.ID
	})
	return el.ID
}

// UpdateElement merges patch into the element with the given id.
// Unknown ids and patches that change nothing are no-ops.
func (s *DocumentService) UpdateElement(id string, patch domain.ElementPatch) bool {
	i := s.doc.IndexOf(id)
	if i < 0 {
		return false
	}
	current := s.doc.Elements()[i]
	updated := patch.Apply(current)
	if reflect.DeepEqual(updated, current) {
		return false
	}
	s.mutate("update", func(d *domain.Document) {
		d.Page().Elements[i] = updated
	})
	return true
}

// DeleteElement removes the element with the given id, clearing the selection
// if it pointed at it. Unknown ids are no-ops.
func (s *DocumentService) DeleteElement(id string) bool {
	i := s.doc.IndexOf(id)
	if i < 0 {
		return false
	}
	s.mutate("delete", func(d *domain.Document) {
		p := d.Page()
		p.Elements = slices.Delete(p.Elements, i, i+1)
		if d.Selected == id {
			d.Selected = ""
		}
	})
	return true
}

// DeleteSelected removes the selected element, if any.
func (s *DocumentService) DeleteSelected() bool {
	if s.doc.Selected == "" {
		return false
	}
	return s.DeleteElement(s.doc.Selected)
}

// ── Layer flags ───────────────────────────────────────────

func (s *DocumentService) LockElement(id string) bool   { return s.setFlags(id, domain.Bool(true), nil) }
func (s *DocumentService) UnlockElement(id string) bool { return s.setFlags(id, domain.Bool(false), nil) }
func (s *DocumentService) HideElement(id string) bool   { return s.setFlags(id, nil, domain.Bool(true)) }
func (s *DocumentService) ShowElement(id string) bool   { return s.setFlags(id, nil, domain.Bool(false)) }

func (s *DocumentService) setFlags(id string, locked, hidden *bool) bool {
	return s.UpdateElement(id, domain.ElementPatch{Locked: locked, Hidden: hidden})
}

// ── Clipboard ─────────────────────────────────────────────

// CopySelected copies the selected element into the clipboard. Not undoable.
func (s *DocumentService) CopySelected() bool {
	el, ok := s.doc.SelectedElement()
	if !ok {
		return false
	}
	c := el.Clone()
	s.doc.Clipboard = &c
	s.emit(EventClipboardChanged, map[string]string{"elementId": el.ID})
	return true
}

// PasteOffset is how far a pasted copy is shifted from the clipboard element.
const PasteOffset = 20.0

// Paste adds a copy of the clipboard element with a fresh id, shifted by
// PasteOffset on both axes. Returns the new id, or "" with an empty clipboard.
func (s *DocumentService) Paste() string {
	if s.doc.Clipboard == nil {
		return ""
	}
	el := s.doc.Clipboard.Clone()
	el.ID = s.newID()
	el.X += PasteOffset
	el.Y += PasteOffset
	return s.AddElement(el)
}

// ── Pages ─────────────────────────────────────────────────

// AddPage appends a page and makes it active. An empty name gets "Page N".
// Pages are not recorded in history.
func (s *DocumentService) AddPage(name string) string {
	id, auto := s.doc.NextPageName()
	if name == "" {
		name = auto
	}
	s.doc.Pages = append(s.doc.Pages, domain.Page{ID: id, Name: name, Elements: []domain.Element{}})
	s.doc.ActivePage = id
	s.doc.Selected = ""
	s.changed("page")
	return id
}

// SetActivePage switches pages and clears the selection. Unknown ids and the
// current page are no-ops. Not recorded in history.
func (s *DocumentService) SetActivePage(id string) bool {
	if id == s.doc.ActivePage || s.doc.PageIndex(id) < 0 {
		return false
	}
	s.doc.ActivePage = id
	s.doc.Selected = ""
	s.changed("page")
	return true
}

// ── History ───────────────────────────────────────────────

// Undo restores the previous document. No-op when there is nothing to undo.
func (s *DocumentService) Undo() bool {
	doc, ok := s.history.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = doc
	// the next mutation of a running gesture starts a new entry
	s.gestureRecorded = false
	s.changed("undo")
	return true
}

// Redo re-applies the last undone document. No-op when there is nothing to redo.
func (s *DocumentService) Redo() bool {
	doc, ok := s.history.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = doc
	s.gestureRecorded = false
	s.changed("redo")
	return true
}

// BeginGesture starts grouping mutations: only the first mutation until
// EndGesture records a history entry, so a whole drag undoes in one step.
func (s *DocumentService) BeginGesture() {
	s.inGesture = true
	s.gestureRecorded = false
}

// EndGesture stops grouping mutations.
func (s *DocumentService) EndGesture() {
	s.inGesture = false
	s.gestureRecorded = false
}

// ── internals ─────────────────────────────────────────────

// mutate records the pre-mutation snapshot and then applies fn, as one unit.
func (s *DocumentService) mutate(reason string, fn func(d *domain.Document)) {
	s.record()
	fn(&s.doc)
	s.changed(reason)
}

func (s *DocumentService) record() {
	if s.inGesture {
		if s.gestureRecorded {
			return
		}
		s.gestureRecorded = true
	}
	if err := s.history.Record(s.doc); err != nil {
		log.Printf("[HISTORY] record snapshot: %v", err)
	}
}

func (s *DocumentService) changed(reason string) {
	s.emit(EventDocumentChanged, DocumentChange{
		Reason:  reason,
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
	})
}

func (s *DocumentService) emit(event string, data any) {
	if s.emitter == nil {
		return
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.emitter.Emit(ctx, event, data)
}

func decodeSnapshotOf(doc domain.Document) (domain.Document, error) {
	data, err := encodeSnapshot(doc)
	if err != nil {
		return domain.Document{}, err
	}
	return decodeSnapshot(data)
}
