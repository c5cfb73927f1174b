package main

import (
	"log/slog"
	"slices"

	"deedles.dev/wlr"
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/internal/util"
	"github.com/vadorovsky/cosmic-comp/shell"
	"github.com/vadorovsky/cosmic-comp/shell/floating"
)

// View ties an xdg toplevel's protocol lifecycle to its handle in the
// floating layout.
type View struct {
	Server  *Server
	Surface *xdgSurface
	Mapped  *shell.Mapped

	// Workspace the view was mapped on. Windows stay put when the
	// active workspace changes.
	Workspace *Workspace

	onMap             wlr.Listener
	onUnmap           wlr.Listener
	onDestroy         wlr.Listener
	onCommit          wlr.Listener
	onRequestMaximize wlr.Listener
	onRequestMove     wlr.Listener
	onRequestResize   wlr.Listener
}

func (server *Server) onNewXDGSurface(surface wlr.XDGSurface) {
	if surface.Role() != wlr.XDGSurfaceRoleTopLevel {
		return
	}

	view := View{
		Server:  server,
		Surface: &xdgSurface{s: surface},
	}
	view.Mapped = shell.NewWindow(view.Surface)

	view.onMap = surface.OnMap(view.onMapped)
	view.onUnmap = surface.OnUnmap(view.onUnmapped)
	view.onDestroy = surface.OnDestroy(view.onDestroyed)
	view.onCommit = surface.Surface().OnCommit(view.onCommitted)

	toplevel := surface.Toplevel()
	view.onRequestMaximize = toplevel.OnRequestMaximize(func(client wlr.SeatClient, serial uint32) {
		server.toggleMaximize(&view)
	})
	view.onRequestMove = toplevel.OnRequestMove(func(client wlr.SeatClient, serial uint32) {
		server.startMove(&view)
	})
	view.onRequestResize = toplevel.OnRequestResize(func(client wlr.SeatClient, serial uint32, edges wlr.Edges) {
		server.startResize(&view, resizeEdges(edges))
	})

	server.views = append(server.views, &view)
}

func (view *View) onMapped(surface wlr.XDGSurface) {
	server := view.Server
	view.Workspace = server.Workspace()
	view.Workspace.Floating.Map(view.Mapped, server, nil)
	server.sendOutputEnters(view)
	server.focusView(view)
}

func (view *View) onUnmapped(surface wlr.XDGSurface) {
	server := view.Server
	if view.Workspace == nil {
		return
	}

	for _, out := range server.outputsFor(view) {
		view.Surface.WLRSurface().SendLeave(out.Output)
	}
	view.Workspace.Floating.Unmap(view.Mapped)
	view.Workspace = nil

	if server.focused == view.Mapped {
		server.clearFocus()
	}
}

func (view *View) onDestroyed(surface wlr.XDGSurface) {
	server := view.Server
	i := slices.Index(server.views, view)
	if i >= 0 {
		server.views = slices.Delete(server.views, i, i+1)
	}

	view.onMap.Destroy()
	view.onUnmap.Destroy()
	view.onDestroy.Destroy()
	view.onCommit.Destroy()
	view.onRequestMaximize.Destroy()
	view.onRequestMove.Destroy()
	view.onRequestResize.Destroy()
}

func (view *View) onCommitted(surface wlr.Surface) {
	if view.Workspace == nil {
		return
	}
	view.Workspace.Floating.OnCommit(view.Mapped)
}

func (server *Server) toggleMaximize(view *View) {
	if view.Workspace == nil {
		return
	}
	f := view.Workspace.Floating
	m := view.Mapped

	if m.Maximized() {
		m.SetMaximized(false)
		if _, ok := f.UnmaximizeRequest(view.Surface); !ok {
			slog.Warn("unmaximize for unmanaged window", "title", view.Surface.Title())
		}
		return
	}

	out, ok := f.MostOverlappedOutputForElement(m)
	if !ok {
		return
	}
	f.MaximizeRequest(view.Surface)
	m.SetMaximized(true)
	f.MapMaximized(m, out)
}

// sendOutputEnters tells the client which outputs its window landed
// on.
func (server *Server) sendOutputEnters(view *View) {
	for _, out := range server.outputsFor(view) {
		view.Surface.WLRSurface().SendEnter(out.Output)
	}
}

func (server *Server) outputsFor(view *View) []*Output {
	if view.Workspace == nil {
		return nil
	}
	geo, ok := view.Workspace.Floating.ElementGeometry(view.Mapped)
	if !ok {
		return nil
	}

	var outs []*Output
	for _, out := range server.outputs {
		if out.Geometry().Overlaps(geo) {
			outs = append(outs, out)
		}
	}
	return outs
}

// ToplevelEnterOutput implements floating.ToplevelInfo.
func (server *Server) ToplevelEnterOutput(s shell.Surface, out shell.Output) {
	if xs, ok := s.(*xdgSurface); ok {
		xs.WLRSurface().SendEnter(out.(*Output).Output)
	}
}

// ToplevelLeaveOutput implements floating.ToplevelInfo.
func (server *Server) ToplevelLeaveOutput(s shell.Surface, out shell.Output) {
	if xs, ok := s.(*xdgSurface); ok {
		xs.WLRSurface().SendLeave(out.(*Output).Output)
	}
}

// viewAt finds the topmost mapped view of the active workspace whose
// surface tree is under the layout-absolute point, together with the
// concrete surface and surface-local coordinates.
func (server *Server) viewAt(lx, ly float64) (view *View, surface wlr.Surface, sx, sy float64) {
	f := server.Workspace().Floating
	for m := range f.Mapped() {
		v := server.viewFor(m)
		if v == nil {
			continue
		}

		geo, ok := f.ElementGeometry(m)
		if !ok {
			continue
		}
		origin := geo.Min.Sub(m.Geometry().Min)

		surface, sx, sy, ok := v.Surface.s.SurfaceAt(lx-float64(origin.X), ly-float64(origin.Y))
		if ok {
			return v, surface, sx, sy
		}
	}
	return nil, wlr.Surface{}, 0, 0
}

func (server *Server) viewFor(m *shell.Mapped) *View {
	view, _ := util.FindFunc(server.views, func(v *View) bool { return v.Mapped == m })
	return view
}

// resizeEdges converts protocol edges into the layout's edge mask.
func resizeEdges(edges wlr.Edges) shell.Edges {
	var e shell.Edges
	if edges&wlr.EdgeTop != 0 {
		e |= shell.EdgeTop
	}
	if edges&wlr.EdgeBottom != 0 {
		e |= shell.EdgeBottom
	}
	if edges&wlr.EdgeLeft != 0 {
		e |= shell.EdgeLeft
	}
	if edges&wlr.EdgeRight != 0 {
		e |= shell.EdgeRight
	}
	return e
}

// startResize begins a pointer-driven resize of view.
func (server *Server) startResize(view *View, edges shell.Edges) {
	if view.Workspace == nil {
		return
	}

	grab := view.Workspace.Floating.ResizeRequest(view.Mapped, server, floating.PointerGrabStart{
		Location: geom.Pt(server.cursor.X(), server.cursor.Y()),
		Button:   uint32(wlr.BtnLeft),
	}, edges)
	if grab == nil {
		return
	}

	server.setCursor(resizeCursor(edges))
	server.inputMode = &inputModeResize{grab: grab, view: view}
}

// startMove begins a pointer-driven move of view.
func (server *Server) startMove(view *View) {
	if view.Workspace == nil {
		return
	}

	grab := view.Workspace.Floating.MoveRequest(view.Mapped, server, floating.PointerGrabStart{
		Location: geom.Pt(server.cursor.X(), server.cursor.Y()),
		Button:   uint32(wlr.BtnLeft),
	})
	if grab == nil {
		return
	}

	server.setCursor("grabbing")
	server.inputMode = &inputModeMove{grab: grab}
}
