package app

import "sketchpad/internal/domain"

// Events emitted to the frontend after every bound call.
const (
	EventFrame    = "editor:frame"
	EventState    = "editor:state"
	EventEditText = "editor:edit-text"
)

// PageView is the frontend view of a page (no elements).
type PageView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EditorState is the chrome the frontend draws around the canvas: header
// buttons, page tabs, zoom slider and tool bar.
type EditorState struct {
	CanUndo      bool        `json:"canUndo"`
	CanRedo      bool        `json:"canRedo"`
	HasClipboard bool        `json:"hasClipboard"`
	Pages        []PageView  `json:"pages"`
	ActivePage   string      `json:"activePage"`
	Selected     string      `json:"selectedElement"`
	Tool         domain.Tool `json:"activeTool"`
	PolygonSides int         `json:"polygonSides"`
	Zoom         float64     `json:"zoom"`
	ShowGrid     bool        `json:"showGrid"`
	ShowRulers   bool        `json:"showRulers"`
}

// TextEdit asks the frontend to open an inline editor over a text element.
type TextEdit struct {
	ElementID string           `json:"elementId"`
	Content   string           `json:"content"`
	Text      domain.TextProps `json:"text"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`

	// Overlay placement in canvas-relative client pixels.
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
	Zoom    float64 `json:"zoom"`
}

func newTextEdit(el domain.Element, canvas domain.Canvas) TextEdit {
	origin := canvas.ToClient(domain.Point{X: el.X, Y: el.Y})
	te := TextEdit{
		ElementID: el.ID,
		X:         el.X,
		Y:         el.Y,
		Width:     el.Width,
		Height:    el.Height,
		ClientX:   origin.X,
		ClientY:   origin.Y,
		Zoom:      domain.ClampZoom(canvas.Zoom),
	}
	if el.Text != nil {
		te.Text = *el.Text
		te.Content = el.Text.Content
	}
	return te
}
