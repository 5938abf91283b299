package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/zonebus/pkg/zonebus"
	"github.com/randalmurphal/zonebus/pkg/zonebus/event"
	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
)

// ErrNoZones is returned by run when neither the catalogue nor the config
// file declares a zone.
var ErrNoZones = errors.New("no zones: add one with 'zonebus zones add' or declare zones in the config file")

type runOptions struct {
	duration    time.Duration
	interval    time.Duration
	sweepPeriod time.Duration
	origin      string
	metrics     bool
	tracing     bool
}

func newRunCmd(c *cli) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch zones with an observer sweeping around the Y axis",
		Long: `Starts a zone watcher whose observer stands at --origin and turns a full
circle in the XZ plane every --sweep-period. Every enter and leave event is
written to stdout as one JSON object per line.`,
		Example: "  zonebus run --db zones.db --duration 10s\n  zonebus run -c zonebus.yaml --sweep-period 2s",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("interval") {
				c.settings.PollInterval = opts.interval
			}
			if cmd.Flags().Changed("metrics") {
				c.settings.Metrics = opts.metrics
			}
			if cmd.Flags().Changed("tracing") {
				c.settings.Tracing = opts.tracing
			}
			return c.run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	flags.DurationVar(&opts.interval, "interval", 0, "Poll interval (overrides poll_interval)")
	flags.DurationVar(&opts.sweepPeriod, "sweep-period", 4*time.Second, "Time for one full turn of the observer")
	flags.StringVar(&opts.origin, "origin", "0,0,0", "Observer position as x,y,z")
	flags.BoolVar(&opts.metrics, "metrics", false, "Record OTel metrics and log a summary on exit")
	flags.BoolVar(&opts.tracing, "tracing", false, "Record OTel spans and log them at debug level")
	return cmd
}

func (c *cli) run(ctx context.Context, opts runOptions) error {
	if opts.sweepPeriod <= 0 {
		return fmt.Errorf("--sweep-period must be positive")
	}
	origin, err := parseVec3i(opts.origin)
	if err != nil {
		return fmt.Errorf("--origin: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tel := setupTelemetry(c.settings, c.logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	src := newSweep(origin, opts.sweepPeriod)
	sys, err := zonebus.New(src,
		zonebus.WithSettings(c.settings),
		zonebus.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}
	defer sys.Close()

	if c.settings.StorePath != "" {
		store, err := c.openStore("")
		if err != nil {
			return err
		}
		n, err := sys.LoadZones(store)
		store.Close()
		if err != nil {
			return err
		}
		c.logger.Debug("catalogue loaded", "path", c.settings.StorePath, "zones", n)
	}
	if len(sys.Watcher().Tracked()) == 0 {
		return ErrNoZones
	}

	printer := &eventPrinter{enc: json.NewEncoder(c.out)}
	sys.Subscribe(event.TypeZoneEnter, printer)
	sys.Subscribe(event.TypeZoneLeave, printer)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	if err := sys.Start(ctx); err != nil {
		return err
	}
	c.logger.Info("watching",
		"zones", sys.Watcher().Tracked(),
		"origin", origin.String(),
		"sweep_period", opts.sweepPeriod.String())

	<-ctx.Done()
	return sys.Close()
}

// eventPrinter writes each event as a JSON line.
type eventPrinter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (p *eventPrinter) HandleEvent(_ context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(evt)
}

// sweep is an observer turning around the Y axis at a fixed rate, starting
// along +X.
type sweep struct {
	origin geom.Vec3i
	period time.Duration
	start  time.Time
	now    func() time.Time
}

func newSweep(origin geom.Vec3i, period time.Duration) *sweep {
	return &sweep{origin: origin, period: period, start: time.Now(), now: time.Now}
}

func (s *sweep) Observe(context.Context) (geom.Observer, error) {
	elapsed := s.now().Sub(s.start) % s.period
	angle := 2 * math.Pi * float64(elapsed) / float64(s.period)
	return geom.Observer{
		Origin:    s.origin,
		Direction: geom.V3f(math.Cos(angle), 0, math.Sin(angle)),
	}, nil
}
