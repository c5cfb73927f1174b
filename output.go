package main

import (
	"log/slog"

	"deedles.dev/wlr"
	"deedles.dev/ximage/geom"

	"github.com/vadorovsky/cosmic-comp/config"
)

// Output is one display, registered with the layout of every
// workspace. It implements shell.Output.
type Output struct {
	Server *Server
	Output wlr.Output

	// Reserved is the space claimed by panels and docks on each side,
	// in logical pixels.
	Reserved config.Reserved

	frame   wlr.Listener
	destroy wlr.Listener
}

// Geometry is the output's absolute position in the layout and its
// effective logical size.
func (out *Output) Geometry() geom.Rect[int] {
	layout := out.Server.outputLayout.Get(out.Output)
	w, h := out.Output.EffectiveResolution()
	return geom.Rt(0, 0, w, h).Add(geom.Pt(layout.X(), layout.Y()))
}

func (out *Output) Scale() float64 {
	return float64(out.Output.Scale())
}

// NonExclusiveZone is the output-local rectangle left over after the
// reserved edges are carved off.
func (out *Output) NonExclusiveZone() geom.Rect[int] {
	w, h := out.Output.EffectiveResolution()
	return geom.Rt(
		out.Reserved.Left,
		out.Reserved.Top,
		w-out.Reserved.Right,
		h-out.Reserved.Bottom,
	)
}

func (server *Server) outputAt(x, y float64) *Output {
	wout := server.outputLayout.OutputAt(x, y)
	for _, out := range server.outputs {
		if out.Output == wout {
			return out
		}
	}
	return nil
}

func (server *Server) onNewOutput(wout wlr.Output) {
	wout.InitRender(server.allocator, server.renderer)

	out := Output{
		Server: server,
		Output: wout,
	}
	out.frame = wout.OnFrame(func(wout wlr.Output) {
		server.onFrame(&out)
	})
	out.destroy = wout.OnDestroy(func(wout wlr.Output) {
		server.removeOutput(&out)
	})
	server.addOutput(&out)

	wout.Commit()
	wout.CreateGlobal()
}

func (server *Server) addOutput(out *Output) {
	server.outputs = append(server.outputs, out)

	cfg, ok := server.Config.ForOutput(out.Output.Name())
	if ok {
		server.configureOutput(out, &cfg)
	} else {
		server.layoutOutput(out, nil)
		server.setOutputMode(out, nil)
	}

	for _, ws := range server.workspaces {
		ws.Floating.MapOutput(out, out.Geometry().Min)
	}

	slog.Info("output added", "name", out.Output.Name(), "geometry", out.Geometry())
}

func (server *Server) removeOutput(out *Output) {
	i := -1
	for j, o := range server.outputs {
		if o == out {
			i = j
			break
		}
	}
	if i < 0 {
		return
	}
	server.outputs = append(server.outputs[:i], server.outputs[i+1:]...)

	// With no output left there is nowhere to reflow windows to, so
	// the layouts keep their state until an output returns.
	if len(server.outputs) != 0 {
		for _, ws := range server.workspaces {
			ws.Floating.UnmapOutput(out, server)
		}
	}

	server.outputLayout.Remove(out.Output)
	slog.Info("output removed", "name", out.Output.Name())
}

func (server *Server) configureOutput(out *Output, cfg *config.Output) {
	server.layoutOutput(out, cfg)
	server.setOutputMode(out, cfg)

	if cfg.Scale != 0 {
		out.Output.SetScale(cfg.Scale)
	}

	if cfg.Transform != 0 {
		out.Output.SetTransform(wlr.OutputTransform(cfg.Transform))
	}

	out.Reserved = cfg.Reserved
}

func (server *Server) layoutOutput(out *Output, cfg *config.Output) {
	if (cfg == nil) || (cfg.X == -1) && (cfg.Y == -1) {
		server.outputLayout.AddAuto(out.Output)
		return
	}

	server.outputLayout.Add(out.Output, cfg.X, cfg.Y)
}

func (server *Server) setOutputMode(out *Output, cfg *config.Output) {
	var set bool
	defer func() {
		if !set {
			mode := out.Output.PreferredMode()
			if mode.Valid() {
				out.Output.SetMode(mode)
			}
		}
	}()

	modes := out.Output.Modes()
	if (cfg == nil) || (cfg.Width == 0) || (cfg.Height == 0) || (len(modes) == 0) {
		return
	}

	for _, mode := range modes {
		if (mode.Width() == int32(cfg.Width)) && (mode.Height() == int32(cfg.Height)) {
			out.Output.SetMode(mode)
			set = true
			return
		}
	}
}
