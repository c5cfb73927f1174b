package main

import (
	"time"

	"deedles.dev/wlr"

	"github.com/vadorovsky/cosmic-comp/shell"
	"github.com/vadorovsky/cosmic-comp/shell/floating"
)

type InputMode interface {
	CursorMoved(*Server, time.Time)
	CursorButtonPressed(*Server, wlr.Pointer, wlr.CursorButton, time.Time)
	CursorButtonReleased(*Server, wlr.Pointer, wlr.CursorButton, time.Time)
}

type inputModeNormal struct{}

func (server *Server) startNormal() {
	server.setCursor("left_ptr")
	server.inputMode = &inputModeNormal{}
}

func (m *inputModeNormal) CursorMoved(server *Server, t time.Time) {
	_, surface, sx, sy := server.viewAt(server.cursor.X(), server.cursor.Y())
	if !surface.Valid() {
		server.setCursor("left_ptr")
		server.seat.PointerNotifyClearFocus()
		return
	}

	focus := server.seat.PointerState().FocusedSurface() != surface
	server.seat.PointerNotifyEnter(surface, sx, sy)
	if !focus {
		server.seat.PointerNotifyMotion(t, sx, sy)
	}
}

func (m *inputModeNormal) CursorButtonPressed(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	view, _, _, _ := server.viewAt(server.cursor.X(), server.cursor.Y())
	if view != nil {
		server.focusView(view)
	}
	server.seat.PointerNotifyButton(t, b, wlr.ButtonPressed)
}

func (m *inputModeNormal) CursorButtonReleased(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	server.seat.PointerNotifyButton(t, b, wlr.ButtonReleased)
}

func (m *inputModeNormal) RequestCursor(server *Server, s wlr.Surface, x, y int) {
	server.cursor.SetSurface(s, int32(x), int32(y))
}

// inputModeResize drives one pointer resize grab. Entered from a
// client resize request; left when the button is released.
type inputModeResize struct {
	grab *floating.ResizeGrab
	view *View
}

func (m *inputModeResize) CursorMoved(server *Server, t time.Time) {
	m.grab.Motion(server.cursorCoords())
}

func (m *inputModeResize) CursorButtonPressed(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	// Already holding a button; extra presses don't change the grab.
}

func (m *inputModeResize) CursorButtonReleased(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	m.grab.Finish()
	server.startNormal()
}

// inputModeMove drives one pointer move grab. Entered from a client
// move request; left when the button is released.
type inputModeMove struct {
	grab *floating.MoveGrab
}

func (m *inputModeMove) CursorMoved(server *Server, t time.Time) {
	m.grab.Motion(server.cursorCoords())
}

func (m *inputModeMove) CursorButtonPressed(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	// Already holding a button; extra presses don't change the grab.
}

func (m *inputModeMove) CursorButtonReleased(server *Server, dev wlr.Pointer, b wlr.CursorButton, t time.Time) {
	m.grab.Finish()
	server.startNormal()
}

func resizeCursor(edges shell.Edges) string {
	switch edges {
	case shell.EdgeTop:
		return "top_side"
	case shell.EdgeBottom:
		return "bottom_side"
	case shell.EdgeLeft:
		return "left_side"
	case shell.EdgeRight:
		return "right_side"
	case shell.EdgeTop | shell.EdgeLeft:
		return "top_left_corner"
	case shell.EdgeTop | shell.EdgeRight:
		return "top_right_corner"
	case shell.EdgeBottom | shell.EdgeLeft:
		return "bottom_left_corner"
	case shell.EdgeBottom | shell.EdgeRight:
		return "bottom_right_corner"
	}
	return "grabbing"
}
