package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kilianp07/occusim/config"
	"github.com/kilianp07/occusim/core/engine"
	"github.com/kilianp07/occusim/core/engine/logging"
	coremetrics "github.com/kilianp07/occusim/core/metrics"
	"github.com/kilianp07/occusim/core/model"
	"github.com/kilianp07/occusim/core/occupancy"
	"github.com/kilianp07/occusim/core/roster"
	"github.com/kilianp07/occusim/infra/logger"
	"github.com/kilianp07/occusim/infra/metrics"
	"github.com/kilianp07/occusim/internal/eventbus"
	"github.com/kilianp07/occusim/pkg/export"
)

// Service wires the schedule engine to its collaborators: the building, the
// metrics sinks, the append-only logs and the CSV exports.
type Service struct {
	Engine   *engine.Engine
	Building *model.Building

	cfg   *config.Config
	sink  coremetrics.Sink
	bus   *eventbus.Bus
	store logging.CancellationStore
	log   logger.Logger

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	building, err := roster.Build(cfg.Building)
	if err != nil {
		return nil, fmt.Errorf("building: %w", err)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	promEnabled := false
	for _, sc := range cfg.Metrics.Sinks {
		if sc.Type == "prometheus" {
			promEnabled = true
		}
	}

	bus := eventbus.New()
	go logOutcomes(bus.Subscribe(64), logg)
	eng, err := engine.New(cfg.Engine, building, logg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	eng.SetEventBus(bus)

	svc := &Service{
		Engine:      eng,
		Building:    building,
		cfg:         cfg,
		sink:        sink,
		bus:         bus,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if eng.Config().Policy == engine.PolicyCancel {
		store, err := logging.NewJSONLStore(cfg.Logs.Cancellations)
		if err != nil {
			return nil, fmt.Errorf("cancellation store: %w", err)
		}
		svc.store = store
		eng.SetCancellationStore(store)
	}
	return svc, nil
}

// Run synthesizes the configured number of days and blocks until done or
// the context is cancelled. Cancellation logs and summaries accumulate
// across days; the CSV exports reflect the last completed day.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	summary := logging.NewAppendWriter(s.cfg.Logs.Summary)
	stats := logging.NewAppendWriter(s.cfg.Logs.Stats)

	for day := 0; day < s.Engine.Config().Days; day++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Engine.RunDay(ctx, day)
		if err != nil {
			return fmt.Errorf("day %d: %w", day, err)
		}
		s.record(res)
		if s.Engine.Config().Policy == engine.PolicyCancel {
			perRoom, overall := res.Rates(s.Building.MeetingRooms())
			if err := summary.Append(logging.RateSummary{
				RatesPerRoom: perRoom,
				OverallRate:  overall,
				DayIndex:     day,
			}); err != nil {
				return fmt.Errorf("summary log: %w", err)
			}
			if err := stats.Append(res.Stats(s.Building.MeetingRooms())); err != nil {
				return fmt.Errorf("stats log: %w", err)
			}
		}
		if err := s.export(); err != nil {
			return err
		}
	}
	return nil
}

// logOutcomes drains the engine's resolution events into the structured log.
// It returns when the bus is closed.
func logOutcomes(events <-chan eventbus.Event, log logger.Logger) {
	for e := range events {
		res, ok := e.(engine.ResolutionEvent)
		if !ok {
			continue
		}
		log.Debugw("event resolved", map[string]any{
			"day":      res.Day,
			"room":     res.Outcome.RoomID,
			"state":    string(res.Outcome.State),
			"attempts": res.Outcome.Attempts,
		})
	}
}

// record feeds the day's outcomes and occupancy series to the metrics sink.
// Sink failures are logged, never fatal: observability must not abort a run.
func (s *Service) record(res *engine.RunResult) {
	for _, o := range res.Outcomes {
		ev := coremetrics.MeetingEvent{
			Room:     o.RoomID,
			Day:      res.Day,
			State:    string(o.State),
			Attempts: o.Attempts,
		}
		if o.Event != nil {
			ev.DurationMinutes = int(o.Event.Duration().Minutes())
			ev.Attendees = len(o.Event.Attendees)
		}
		switch o.State {
		case engine.StateCancelledTime:
			ev.Reason = string(logging.ReasonTimeConflict)
		case engine.StateCancelledEmployee:
			ev.Reason = string(logging.ReasonEmployeeConflict)
		}
		if err := s.sink.RecordMeeting(ev); err != nil {
			s.log.Warnf("record meeting: %v", err)
		}
	}

	var ticks []coremetrics.RoomTick
	for _, p := range occupancy.Series(s.Building, occupancy.Start(), time.Second) {
		ticks = append(ticks, coremetrics.RoomTick{
			Room:     p.Label,
			Kind:     string(p.Kind),
			Time:     p.Time,
			Occupied: p.Occupied == 1,
			Count:    p.Count,
			Max:      p.Max,
		})
	}
	if err := s.sink.RecordOccupancy(ticks); err != nil {
		s.log.Warnf("record occupancy: %v", err)
	}

	perRoom, overall := res.Rates(s.Building.MeetingRooms())
	if err := s.sink.RecordRunSummary(coremetrics.RunSummary{
		Day:          res.Day,
		Committed:    res.Committed,
		Cancelled:    len(res.Cancellations),
		OverallRate:  overall,
		RatesPerRoom: perRoom,
		Time:         time.Now(),
	}); err != nil {
		s.log.Warnf("record summary: %v", err)
	}
}

// export writes the two CSV layouts for the current committed schedules.
func (s *Service) export() error {
	if path := s.cfg.Output.LongForm; path != "" {
		if err := writeCSV(path, func(f *os.File) error {
			return export.WriteLongForm(f, s.Building)
		}); err != nil {
			return fmt.Errorf("long-form export: %w", err)
		}
	}
	if path := s.cfg.Output.WideForm; path != "" {
		if err := writeCSV(path, func(f *os.File) error {
			return export.WriteWideForm(f, s.Building)
		}); err != nil {
			return fmt.Errorf("wide-form export: %w", err)
		}
	}
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
