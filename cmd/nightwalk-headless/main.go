// Command nightwalk-headless walks a scripted path without a window. It can
// render the ambience to a WAV file, stream frames over a websocket and save
// the final session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nightwalk/internal/app"
	"nightwalk/internal/audio"
	"nightwalk/internal/core"
	"nightwalk/internal/feedback"
	"nightwalk/internal/mathx"
	"nightwalk/internal/save"
	"nightwalk/internal/sim"
	"nightwalk/internal/stream"
)

type options struct {
	app.Config
	Ticks      int
	WAV        string
	Serve      string
	SaveSlot   string
	DumpConfig bool
	Realtime   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "nightwalk-headless:", err)
		os.Exit(1)
	}
}

func parse(args []string, stderr io.Writer) (options, error) {
	opts := options{Config: *app.NewConfig()}
	fs := flag.NewFlagSet("nightwalk-headless", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.Config.Bind(fs)
	fs.IntVar(&opts.Ticks, "ticks", 3600, "ticks to simulate; 0 runs until interrupted")
	fs.StringVar(&opts.WAV, "wav", "", "render the ambience of the walk to this WAV file")
	fs.StringVar(&opts.Serve, "serve", "", "stream frames over websocket at this address, e.g. :8080")
	fs.StringVar(&opts.SaveSlot, "save", "", "save the final session under this slot")
	fs.BoolVar(&opts.DumpConfig, "dump-config", false, "print the resolved config as YAML and exit")
	fs.BoolVar(&opts.Realtime, "realtime", false, "pace ticks at -tps instead of running flat out")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Serve != "" {
		opts.Realtime = true
	}
	if opts.Ticks <= 0 && !opts.Realtime {
		return options{}, errors.New("-ticks 0 needs -realtime or -serve")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parse(args, stderr)
	if err != nil {
		return err
	}
	level, err := opts.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := opts.SimConfig()
	if err != nil {
		return err
	}
	if opts.DumpConfig {
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	var store *save.Store
	if opts.Load != "" || opts.SaveSlot != "" {
		if store, err = save.Open(opts.SaveDir); err != nil {
			return err
		}
	}

	s := sim.New(cfg, sim.Options{Logger: logger})
	if opts.Load != "" {
		var sess sim.Session
		if err := store.Load(opts.Load, &sess); err != nil {
			return err
		}
		s.Restore(sess)
		logger.Info("session restored", "slot", opts.Load)
	}

	var hub *stream.Hub
	if opts.Serve != "" {
		hub = stream.NewHub(stream.HubConfig{Logger: logger})
		defer hub.Close()
		srv, err := serve(opts.Serve, hub, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	pacer := core.NewFixedStep(opts.TPS)
	dt := pacer.Seconds()
	var levels []feedback.AudioLevels
	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(pacer.Interval())
		defer ticker.Stop()
	}

	walk := newWalker(s.Player().Yaw)
	ticks := 0
loop:
	for opts.Ticks <= 0 || ticks < opts.Ticks {
		n := 1
		if ticker != nil {
			select {
			case <-ctx.Done():
				break loop
			case now := <-ticker.C:
				n = pacer.Advance(now)
			}
		} else if ctx.Err() != nil {
			break
		}
		for n = budget(n, ticks, opts.Ticks); n > 0; n-- {
			f := s.Tick(dt, walk.input(s.Time()))
			ticks++
			if opts.WAV != "" {
				levels = append(levels, f.Audio)
			}
			if hub != nil {
				if err := hub.Publish(f); err != nil {
					logger.Warn("publish failed", "err", err)
				}
			}
		}
	}

	enc := s.Encounter()
	p := s.Player()
	fmt.Fprintf(stdout, "ticks=%d seconds=%.1f distance=%.1fm focus=%.2f activations=%d caught=%d\n",
		ticks, s.Time(), p.TotalDistanceMeters, s.Focus(), enc.Activations, enc.Catches)

	if opts.WAV != "" {
		if err := writeWAV(opts.WAV, levels, pacer.Interval(), opts.Volume, cfg.Seed); err != nil {
			return err
		}
		logger.Info("ambience written", "path", opts.WAV, "ticks", len(levels))
	}
	if opts.SaveSlot != "" {
		if err := store.Save(opts.SaveSlot, s.Session()); err != nil {
			return err
		}
		logger.Info("session saved", "slot", opts.SaveSlot, "dir", store.Dir())
	}
	return nil
}

func serve(addr string, hub *stream.Hub, logger *slog.Logger) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/frames", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return nil, fmt.Errorf("serve %s: %w", addr, err)
	case <-time.After(50 * time.Millisecond):
	}
	logger.Info("streaming frames", "addr", addr, "path", "/frames")
	go func() {
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stream server stopped", "err", err)
		}
	}()
	return srv, nil
}

func writeWAV(path string, levels []feedback.AudioLevels, tick time.Duration, volume float64, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, levels, tick, volume, seed); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// budget caps a batch of due ticks so the run stops at limit. A limit of
// zero or less means no cap.
func budget(n, done, limit int) int {
	if limit > 0 {
		n = min(n, limit-done)
	}
	return max(n, 0)
}

// walker steers a slow meander with the occasional sprint.
type walker struct {
	yaw0 float64
}

func newWalker(yaw float64) walker { return walker{yaw0: yaw} }

func (w walker) input(t float64) sim.Input {
	return sim.Input{
		Move:   mathx.Vec2{Z: 1},
		Sprint: math.Mod(t, 45) < 5,
		Yaw:    mathx.WrapAngle(w.yaw0 + 0.7*math.Sin(t*0.07)),
	}
}
