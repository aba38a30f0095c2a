package app

import (
	"context"
	"fmt"
	"log"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sketchpad/internal/config"
	"sketchpad/internal/domain"
	"sketchpad/internal/interaction"
	"sketchpad/internal/service"
	"sketchpad/internal/storage"
)

// shutdownTimeout bounds the final save and the wait for an in-flight autosave.
const shutdownTimeout = 5 * time.Second

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	cfg     config.Config
	emitter service.EventEmitter

	session  *Session
	ctrl     *interaction.Controller
	autosave *service.Autosaver
	watcher  *sessionWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	cfg, err := config.Load()
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load config, using defaults: %v", err)
	}
	if a.emitter == nil {
		a.emitter = wailsEmitter{}
	}
	if err := a.start(ctx, cfg); err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open storage: %v", err)
		return
	}
	wailsRuntime.LogInfof(ctx, "Session %q loaded from %s storage", cfg.Storage.Key, cfg.Storage.Driver)
}

// start opens storage, loads the session and starts the background workers.
func (a *App) start(ctx context.Context, cfg config.Config) error {
	a.ctx = ctx
	a.cfg = cfg
	if a.emitter == nil {
		a.emitter = noopEmitter{}
	}

	session, err := openSession(ctx, cfg, a.emitter)
	if err != nil {
		return err
	}
	a.session = session
	a.ctrl = interaction.NewController(session.docs, session.canvas, session.tools, a)

	if cfg.AutosaveEnabled() {
		autosave, err := service.NewAutosaver(cfg.Autosave.Schedule, session.Save, a.emitter)
		if err != nil {
			log.Printf("[AUTOSAVE] disabled: %v", err)
		} else if err := autosave.Start(ctx); err != nil {
			log.Printf("[AUTOSAVE] disabled: %v", err)
		} else {
			a.autosave = autosave
		}
	}

	if cfg.WatchEnabled() {
		a.watcher = newSessionWatcher(ctx, storage.FilePath(session.store), session.Reload, func() {
			a.session.Do(a.publish)
		})
		a.watcher.Start()
	}

	a.session.Do(a.publish)
	return nil
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.autosave != nil {
		a.autosave.Stop()
		waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		a.autosave.Wait(waitCtx)
		cancel()
	}
	if a.session == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := a.session.Save(saveCtx); err != nil {
		log.Printf("[SESSION] save on shutdown: %v", err)
	}
	a.session.Close()
}

// EditText implements interaction.TextEditor. It is called with the session
// locked, from inside a pointer binding.
func (a *App) EditText(el domain.Element) {
	a.emit(EventEditText, newTextEdit(el, a.session.canvas.State()))
}

// ============================================================
// Binding plumbing
// ============================================================

// do runs fn against the core, publishes the new frame and state, and writes
// the session through once no gesture is in progress.
func (a *App) do(fn func()) {
	a.session.Do(func() {
		fn()
		a.publish()
		if a.ctrl.Mode() != interaction.ModeIdle {
			return
		}
		if err := a.session.saveLocked(a.ctx); err != nil {
			log.Printf("[SESSION] write-through: %v", err)
		}
	})
}

// publish emits the current frame and editor state. Session must be locked.
func (a *App) publish() {
	a.emit(EventFrame, a.ctrl.Frame())
	a.emit(EventState, a.stateLocked())
}

func (a *App) emit(event string, data any) {
	if a.emitter == nil || a.ctx == nil {
		return
	}
	a.emitter.Emit(a.ctx, event, data)
}

func (a *App) stateLocked() EditorState {
	s := a.session
	pages := s.docs.Pages()
	views := make([]PageView, len(pages))
	for i, p := range pages {
		views[i] = PageView{ID: p.ID, Name: p.Name}
	}
	_, hasClip := s.docs.Clipboard()
	canvas := s.canvas.State()
	tools := s.tools.State()
	return EditorState{
		CanUndo:      s.docs.CanUndo(),
		CanRedo:      s.docs.CanRedo(),
		HasClipboard: hasClip,
		Pages:        views,
		ActivePage:   s.docs.ActivePage(),
		Selected:     s.docs.Selected(),
		Tool:         tools.Active,
		PolygonSides: tools.PolygonSides,
		Zoom:         canvas.Zoom,
		ShowGrid:     canvas.ShowGrid,
		ShowRulers:   canvas.ShowRulers,
	}
}

// ============================================================
// Input
// ============================================================

func (a *App) PointerDown(ev interaction.PointerEvent) { a.do(func() { a.ctrl.PointerDown(ev) }) }
func (a *App) PointerMove(ev interaction.PointerEvent) { a.do(func() { a.ctrl.PointerMove(ev) }) }
func (a *App) PointerUp(ev interaction.PointerEvent)   { a.do(func() { a.ctrl.PointerUp(ev) }) }

// PointerLeave ends any gesture when the pointer leaves the canvas.
func (a *App) PointerLeave(ev interaction.PointerEvent) { a.do(func() { a.ctrl.PointerLeave(ev) }) }

func (a *App) Wheel(ev interaction.WheelEvent) { a.do(func() { a.ctrl.Wheel(ev) }) }

// KeyDown returns true when the key was handled and the browser default should be prevented.
func (a *App) KeyDown(ev interaction.KeyEvent) (handled bool) {
	a.do(func() { handled = a.ctrl.Key(ev) })
	return handled
}

// ============================================================
// Queries
// ============================================================

func (a *App) GetFrame() (f interaction.Frame) {
	a.session.Do(func() { f = a.ctrl.Frame() })
	return f
}

func (a *App) GetState() (st EditorState) {
	a.session.Do(func() { st = a.stateLocked() })
	return st
}

func (a *App) GetElement(id string) (el domain.Element, err error) {
	a.session.Do(func() {
		var ok bool
		if el, ok = a.session.docs.Element(id); !ok {
			err = fmt.Errorf("element not found: %s", id)
		}
	})
	return el, err
}

// ============================================================
// Document
// ============================================================

func (a *App) SelectElement(id string) { a.do(func() { a.session.docs.Select(id) }) }
func (a *App) Deselect()               { a.do(func() { a.session.docs.Deselect() }) }

// AddElement adds el on top of the active page and returns its id ("" when rejected).
func (a *App) AddElement(el domain.Element) (id string) {
	a.do(func() { id = a.session.docs.AddElement(el) })
	return id
}

// UpdateElement is the property-panel entry point.
func (a *App) UpdateElement(id string, patch domain.ElementPatch) (ok bool) {
	a.do(func() { ok = a.session.docs.UpdateElement(id, patch) })
	return ok
}

// SetElementText commits the inline text editor opened by editor:edit-text.
func (a *App) SetElementText(id, content string) (ok bool) {
	a.do(func() {
		ok = a.session.docs.UpdateElement(id, domain.ElementPatch{Content: domain.String(content)})
	})
	return ok
}

func (a *App) DeleteElement(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.DeleteElement(id) })
	return ok
}

func (a *App) DeleteSelected() (ok bool) {
	a.do(func() { ok = a.session.docs.DeleteSelected() })
	return ok
}

func (a *App) LockElement(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.LockElement(id) })
	return ok
}

func (a *App) UnlockElement(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.UnlockElement(id) })
	return ok
}

func (a *App) HideElement(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.HideElement(id) })
	return ok
}

func (a *App) ShowElement(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.ShowElement(id) })
	return ok
}

func (a *App) Copy() (ok bool) {
	a.do(func() { ok = a.session.docs.CopySelected() })
	return ok
}

func (a *App) Paste() (id string) {
	a.do(func() { id = a.session.docs.Paste() })
	return id
}

// NewFile replaces the document with an empty one. Undoable.
func (a *App) NewFile() { a.do(a.session.docs.ResetDocument) }

// ── Layers & layout ───────────────────────────────────────

func (a *App) BringForward(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.BringForward(id) })
	return ok
}

func (a *App) SendBackward(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.SendBackward(id) })
	return ok
}

func (a *App) BringToFront(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.BringToFront(id) })
	return ok
}

func (a *App) SendToBack(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.SendToBack(id) })
	return ok
}

func (a *App) AlignElements(edge string) (ok bool) {
	a.do(func() { ok = a.session.docs.AlignElements(service.Edge(edge)) })
	return ok
}

func (a *App) DistributeElements(axis string) (ok bool) {
	a.do(func() { ok = a.session.docs.DistributeElements(service.Axis(axis)) })
	return ok
}

// ── History ───────────────────────────────────────────────

func (a *App) Undo() (ok bool) {
	a.do(func() { ok = a.session.docs.Undo() })
	return ok
}

func (a *App) Redo() (ok bool) {
	a.do(func() { ok = a.session.docs.Redo() })
	return ok
}

// ── Pages ─────────────────────────────────────────────────

func (a *App) AddPage(name string) (id string) {
	a.do(func() { id = a.session.docs.AddPage(name) })
	return id
}

func (a *App) SetActivePage(id string) (ok bool) {
	a.do(func() { ok = a.session.docs.SetActivePage(id) })
	return ok
}

// ============================================================
// Canvas & tools
// ============================================================

func (a *App) ZoomIn()             { a.do(a.session.canvas.ZoomIn) }
func (a *App) ZoomOut()            { a.do(a.session.canvas.ZoomOut) }
func (a *App) ResetZoom()          { a.do(a.session.canvas.ResetZoom) }
func (a *App) SetZoom(z float64)   { a.do(func() { a.session.canvas.SetZoom(z) }) }
func (a *App) SetPan(x, y float64) { a.do(func() { a.session.canvas.SetPan(domain.Point{X: x, Y: y}) }) }
func (a *App) ToggleGrid()         { a.do(a.session.canvas.ToggleGrid) }
func (a *App) ToggleRulers()       { a.do(a.session.canvas.ToggleRulers) }

func (a *App) SetTool(tool string) (ok bool) {
	a.do(func() { ok = a.session.tools.SetTool(domain.Tool(tool)) })
	return ok
}

func (a *App) SetPolygonPreset(name string) (ok bool) {
	a.do(func() { ok = a.session.tools.SetPolygonPreset(name) })
	return ok
}

func (a *App) SetPolygonSides(n int) (ok bool) {
	a.do(func() { ok = a.session.tools.SetPolygonSides(n) })
	return ok
}

// ============================================================
// Persistence
// ============================================================

// SaveSession writes the session now, outside the autosave schedule.
func (a *App) SaveSession() error {
	return a.session.Save(a.ctx)
}
