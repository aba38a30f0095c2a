package domain

import "fmt"

// Page is a named container owning its own element sequence.
type Page struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Elements []Element `json:"elements"`
}

// Document is the undoable part of an editing session.
// Every element operation acts on the active page's Elements.
type Document struct {
	Pages      []Page   `json:"pages"`
	ActivePage string   `json:"activePage"`
	Selected   string   `json:"selectedElement"`
	Clipboard  *Element `json:"clipboard"`
}

const (
	DefaultPageID   = "page-1"
	DefaultPageName = "Page 1"
)

// NewDocument returns the default document: one empty page, nothing selected.
func NewDocument() Document {
	return Document{
		Pages:      []Page{{ID: DefaultPageID, Name: DefaultPageName, Elements: []Element{}}},
		ActivePage: DefaultPageID,
	}
}

// PageIndex returns the index of the page with the given id, or -1.
func (d *Document) PageIndex(id string) int {
	for i := range d.Pages {
		if d.Pages[i].ID == id {
			return i
		}
	}
	return -1
}

// Page returns the active page, or nil if the active id is dangling.
func (d *Document) Page() *Page {
	if i := d.PageIndex(d.ActivePage); i >= 0 {
		return &d.Pages[i]
	}
	return nil
}

// Elements returns the active page's element sequence (nil without an active page).
func (d *Document) Elements() []Element {
	if p := d.Page(); p != nil {
		return p.Elements
	}
	return nil
}

// IndexOf returns the index of id in the active page's elements, or -1.
func (d *Document) IndexOf(id string) int {
	for i, el := range d.Elements() {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// Element returns the element with the given id on the active page.
func (d *Document) Element(id string) (Element, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.Elements()[i], true
	}
	return Element{}, false
}

// SelectedElement returns the selected element, if any.
func (d *Document) SelectedElement() (Element, bool) {
	if d.Selected == "" {
		return Element{}, false
	}
	return d.Element(d.Selected)
}

// HasID reports whether any page holds an element with the given id.
func (d *Document) HasID(id string) bool {
	for _, p := range d.Pages {
		for _, el := range p.Elements {
			if el.ID == id {
				return true
			}
		}
	}
	return false
}

// NextPageName returns the automatic id and name for a page appended now.
func (d *Document) NextPageName() (id, name string) {
	n := len(d.Pages) + 1
	id = fmt.Sprintf("page-%d", n)
	for d.PageIndex(id) >= 0 {
		n++
		id = fmt.Sprintf("page-%d", n)
	}
	return id, fmt.Sprintf("Page %d", len(d.Pages)+1)
}

// Repair brings a document loaded from storage back in line with the
// invariants: at least one page, a valid active page, normalized elements,
// unique ids, and a selection that references the active page.
func (d *Document) Repair() {
	if len(d.Pages) == 0 {
		*d = NewDocument()
		return
	}
	if d.PageIndex(d.ActivePage) < 0 {
		d.ActivePage = d.Pages[0].ID
	}
	seen := make(map[string]bool)
	for i := range d.Pages {
		p := &d.Pages[i]
		kept := make([]Element, 0, len(p.Elements))
		for _, el := range p.Elements {
			if el.ID == "" || seen[el.ID] || !el.Kind.Valid() {
				continue
			}
			seen[el.ID] = true
			el.Normalize()
			kept = append(kept, el)
		}
		p.Elements = kept
	}
	if d.Selected != "" && d.IndexOf(d.Selected) < 0 {
		d.Selected = ""
	}
	if d.Clipboard != nil {
		if d.Clipboard.Kind.Valid() {
			d.Clipboard.Normalize()
		} else {
			d.Clipboard = nil
		}
	}
}
