package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"nightwalk/internal/app"
	"nightwalk/internal/save"
	"nightwalk/internal/sim"
	"nightwalk/internal/tui"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file; the terminal is busy drawing")
	slot := flag.String("slot", "quick", "save slot used by the p key")
	flag.Parse()

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatal(err)
	}
	store, err := save.Open(cfg.SaveDir)
	if err != nil {
		log.Fatal(err)
	}
	s := sim.New(simCfg, sim.Options{Logger: logger})
	if cfg.Load != "" {
		var sess sim.Session
		if err := store.Load(cfg.Load, &sess); err != nil {
			log.Fatal(err)
		}
		s.Restore(sess)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tui.Run(ctx, screen, s, tui.Options{
		TPS:    cfg.TPS,
		Logger: logger,
		Save: func(sess sim.Session) error {
			return store.Save(*slot, sess)
		},
	})
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("walk ended", "distance", s.Player().TotalDistanceMeters, "activations", s.Encounter().Activations)
}
