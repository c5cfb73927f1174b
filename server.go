package main

import (
	"log/slog"
	"os"
	"os/exec"

	"deedles.dev/wlr"

	"github.com/vadorovsky/cosmic-comp/config"
	"github.com/vadorovsky/cosmic-comp/shell"
	"github.com/vadorovsky/cosmic-comp/shell/floating"
)

type Server struct {
	Config *config.Config

	display wlr.Display

	allocator    wlr.Allocator
	backend      wlr.Backend
	cursor       wlr.Cursor
	outputLayout wlr.OutputLayout
	renderer     wlr.Renderer
	seat         wlr.Seat
	cursorMgr    wlr.XCursorManager
	compositor   wlr.Compositor
	dataDevMgr   wlr.DataDeviceManager
	xdgShell     wlr.XDGShell

	outputs   []*Output
	pointers  []wlr.Pointer
	keyboards []*Keyboard
	views     []*View

	workspaces []*Workspace
	active     int

	focused *shell.Mapped

	resizeIndicator *ResizeIndicator

	newOutput            wlr.Listener
	newInput             wlr.Listener
	cursorMotion         wlr.Listener
	cursorMotionAbsolute wlr.Listener
	cursorButton         wlr.Listener
	cursorAxis           wlr.Listener
	cursorFrame          wlr.Listener
	requestCursor        wlr.Listener
	newXDGSurface        wlr.Listener

	inputMode InputMode
}

// A Workspace is one floating layout spanning every output. Windows
// live on exactly one workspace; only the active workspace is
// rendered and receives input.
type Workspace struct {
	Floating *floating.Floating
}

func NewServer(cfg *config.Config) *Server {
	server := Server{
		Config: cfg,
	}

	server.display = wlr.CreateDisplay()
	server.backend = wlr.AutocreateBackend(server.display)
	server.renderer = wlr.AutocreateRenderer(server.backend)
	server.renderer.InitWLDisplay(server.display)
	server.allocator = wlr.AutocreateAllocator(server.backend, server.renderer)

	server.compositor = wlr.CreateCompositor(server.display, server.renderer)
	server.dataDevMgr = wlr.CreateDataDeviceManager(server.display)

	server.outputLayout = wlr.CreateOutputLayout()
	server.newOutput = server.backend.OnNewOutput(server.onNewOutput)

	server.xdgShell = wlr.CreateXDGShell(server.display)
	server.newXDGSurface = server.xdgShell.OnNewSurface(server.onNewXDGSurface)

	server.cursor = wlr.CreateCursor()
	server.cursor.AttachOutputLayout(server.outputLayout)
	server.cursorMotion = server.cursor.OnMotion(server.onCursorMotion)
	server.cursorMotionAbsolute = server.cursor.OnMotionAbsolute(server.onCursorMotionAbsolute)
	server.cursorButton = server.cursor.OnButton(server.onCursorButton)
	server.cursorAxis = server.cursor.OnAxis(server.onCursorAxis)
	server.cursorFrame = server.cursor.OnFrame(server.onCursorFrame)
	server.cursorMgr = wlr.CreateXCursorManager()
	server.cursorMgr.Load()

	server.seat = wlr.CreateSeat(server.display, "seat0")
	server.requestCursor = server.seat.OnRequestSetCursor(server.onRequestCursor)
	server.newInput = server.backend.OnNewInput(server.onNewInput)

	server.resizeIndicator = NewResizeIndicator(&server)

	server.workspaces = []*Workspace{{Floating: floating.New()}}
	server.startNormal()

	return &server
}

func (server *Server) Start() error {
	if err := server.backend.Start(); err != nil {
		return err
	}

	socket, err := server.display.AddSocketAuto()
	if err != nil {
		return err
	}
	if err := os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return err
	}

	slog.Info("running", "socket", socket)
	return nil
}

func (server *Server) Run() {
	server.display.Run()
	server.display.Destroy()
}

// Workspace is the active workspace.
func (server *Server) Workspace() *Workspace {
	return server.workspaces[server.active]
}

func (server *Server) switchWorkspace(n int) {
	if (n < 0) || (n >= len(server.workspaces)) || (n == server.active) {
		return
	}

	server.active = n
	server.clearFocus()
}

func (server *Server) newWorkspace() {
	ws := Workspace{Floating: floating.New()}
	for _, out := range server.outputs {
		ws.Floating.MapOutput(out, out.Geometry().Min)
	}

	server.workspaces = append(server.workspaces, &ws)
	server.switchWorkspace(len(server.workspaces) - 1)
}

// removeWorkspace deletes the active workspace, consolidating its
// windows into the previous one.
func (server *Server) removeWorkspace() {
	if len(server.workspaces) < 2 {
		return
	}

	old := server.Workspace()
	i := server.active
	server.workspaces = append(server.workspaces[:i], server.workspaces[i+1:]...)
	if server.active > 0 {
		server.active--
	}

	server.Workspace().Floating.Merge(old.Floating)
	server.clearFocus()
}

func (server *Server) clearFocus() {
	if server.focused != nil {
		server.focused.SetActivated(false)
		server.focused = nil
	}
	server.seat.KeyboardNotifyClearFocus()
}

func (server *Server) focusView(view *View) {
	surface := view.Surface.WLRSurface()
	prev := server.seat.KeyboardState().FocusedSurface()
	if prev == surface {
		return
	}

	if server.focused != nil {
		server.focused.SetActivated(false)
	}
	view.Mapped.SetActivated(true)
	server.focused = view.Mapped
	server.Workspace().Floating.Raise(view.Mapped)

	keyboard := server.seat.GetKeyboard()
	server.seat.KeyboardNotifyEnter(surface, keyboard.Keycodes(), keyboard.Modifiers())
}

// focusedView resolves the focused layout handle back to its view.
func (server *Server) focusedView() *View {
	if server.focused == nil {
		return nil
	}
	for _, view := range server.views {
		if view.Mapped == server.focused {
			return view
		}
	}
	return nil
}

// HasPointer implements shell.Seat.
func (server *Server) HasPointer() bool {
	return len(server.pointers) != 0
}

// ActiveOutput implements shell.Seat. New windows go to the output
// under the cursor, falling back to the first output.
func (server *Server) ActiveOutput() shell.Output {
	if out := server.outputAt(server.cursor.X(), server.cursor.Y()); out != nil {
		return out
	}
	if len(server.outputs) == 0 {
		return nil
	}
	return server.outputs[0]
}

func (server *Server) exec() {
	if len(server.Config.Term) == 0 {
		return
	}

	cmd := exec.Command(server.Config.Term[0], server.Config.Term[1:]...)
	if err := cmd.Start(); err != nil {
		slog.Error("spawn terminal", "err", err)
	}
}
