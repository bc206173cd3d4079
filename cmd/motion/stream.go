package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/motion/internal/frame"
	"github.com/san-kum/motion/internal/motion"
	"github.com/san-kum/motion/internal/sink"
	"github.com/san-kum/motion/internal/spring"
	"github.com/san-kum/motion/internal/telemetry"
	"github.com/san-kum/motion/internal/viz"
)

// serveMetrics registers a collector and serves it on addr until ctx ends.
// It returns nil when addr is empty.
func serveMetrics(ctx context.Context, addr string) (motion.Metrics, error) {
	if addr == "" {
		return nil, nil
	}
	collector, err := telemetry.NewCollector(nil, "")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(nil))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	return collector, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	collector, err := serveMetrics(ctx, settings.MetricsAddr)
	if err != nil {
		return err
	}

	m, err := viz.NewLive(viz.LiveConfig{
		Preset:  livePreset,
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// streamScenario plays a scenario on a real-time frame loop. Events fire on
// wall-clock timers and are handed to the loop goroutine, which owns the
// driver. The stream ends once the last event has played and the driver is
// at rest, or when the scenario duration elapses.
func streamScenario(cmd *cobra.Command, args []string) error {
	sc, cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out sink.Sink
	if toStdout {
		out = sink.JSONLines(os.Stdout)
	} else {
		client, err := sink.Connect(settings.MQTT.Broker, settings.MQTT.ClientID)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		out = sink.MQTT(client, settings.MQTT.Topic)
		logger.Info("publishing frames", "broker", settings.MQTT.Broker, "topic", settings.MQTT.Topic)
	}

	collector, err := serveMetrics(ctx, settings.MetricsAddr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	loop := frame.NewLoop(cfg.FrameInterval)
	rec := sink.NewRecorder(out)
	pending := len(sc.Events)
	finishIfIdle := func(d *motion.Driver) {
		if pending == 0 && !d.Scheduled() && cfg.StopAtRest {
			cancel()
		}
	}

	opts := []motion.Option{
		motion.WithLogger(logger),
		motion.WithMetrics(collector),
		motion.WithOnFrame(func(s spring.PlainStyle) {
			rec.OnFrame(s, loop.Now().Seconds())
			if rec.Err() != nil {
				cancel()
			}
		}),
	}
	if sc.DefaultStyle != nil {
		opts = append(opts, motion.WithDefaultStyle(sc.DefaultStyle))
	}

	d, err := motion.New(loop, sc.Target, opts...)
	if err != nil {
		return err
	}
	d.OnRest(func() { finishIfIdle(d) })
	rec.OnFrame(d.Style(), 0)

	for _, ev := range sc.Events {
		ev := ev
		timer := time.AfterFunc(ev.At, func() {
			loop.Do(ctx, func() {
				pending--
				if err := d.SetTarget(ev.Style); err != nil {
					logger.Error("event rejected", "at", ev.At, "err", err)
				}
				finishIfIdle(d)
			})
		})
		defer timer.Stop()
	}
	finishIfIdle(d)

	err = loop.Run(ctx)
	d.Destroy()

	if rec.Err() != nil {
		return fmt.Errorf("publish: %w", rec.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("stream finished", "frames", rec.Written())
	return err
}
