package main

import (
	"flag"
	"log/slog"
	"os"

	"deedles.dev/wlr"
	"github.com/phsym/console-slog"

	"github.com/vadorovsky/cosmic-comp/config"
	"github.com/vadorovsky/cosmic-comp/internal/util"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	term := util.StringsFlag("term", nil, "terminal command, overriding the config")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))

	wlr.LogInit(wlr.Error, nil)
	if *debug {
		wlr.LogInit(wlr.Debug, nil)
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			slog.Error("locate config", "err", err)
			os.Exit(1)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if len(*term) != 0 {
		cfg.Term = *term
	}

	server := NewServer(cfg)
	if err := server.Start(); err != nil {
		slog.Error("start server", "err", err)
		os.Exit(1)
	}
	server.Run()
}
