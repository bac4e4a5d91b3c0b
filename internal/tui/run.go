package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"nightwalk/internal/core"
	"nightwalk/internal/sim"
)

// Options configures Run.
type Options struct {
	TPS    int
	Logger *slog.Logger
	// Save receives the session when the save key is pressed. Nil disables
	// saving.
	Save func(sim.Session) error
}

// Run drives s on screen until the user quits or ctx is cancelled. The
// caller owns the screen and must call Fini afterwards.
func Run(ctx context.Context, screen tcell.Screen, s *sim.Simulation, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pacer := core.NewFixedStep(opts.TPS)
	ticker := time.NewTicker(pacer.Interval())
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var ctl Controls
	ctl.Sync(s.Player())
	dt := pacer.Seconds()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch a := ActionFor(ev); a {
				case ActionQuit:
					return nil
				case ActionTrigger:
					s.TriggerEncounter()
				case ActionDismiss:
					s.DismissEncounter()
				case ActionSave:
					if opts.Save == nil {
						break
					}
					if err := opts.Save(s.Session()); err != nil {
						logger.Warn("save failed", "err", err)
					} else {
						logger.Info("session saved")
					}
				default:
					ctl.Apply(a)
				}
			}
		case now := <-ticker.C:
			for n := pacer.Advance(now); n > 0; n-- {
				s.Tick(dt, ctl.Input(dt))
			}
			Draw(screen, s.Cells(), s.Size(), StatusOf(s.Frame()))
			screen.Show()
		}
	}
}
