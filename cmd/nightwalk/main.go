//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"nightwalk/internal/app"
	"nightwalk/internal/save"
	"nightwalk/internal/sim"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

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

	game, err := app.New(s, app.Options{
		Scale:  cfg.Scale,
		TPS:    cfg.TPS,
		Volume: cfg.Volume,
		Mute:   cfg.Mute,
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("nightwalk - " + simCfg.Preset)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
