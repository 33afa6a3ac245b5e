package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/occusim/core/metrics"
)

// PromSink records simulation output in Prometheus metrics.
type PromSink struct {
	meetings  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	occupancy *prometheus.GaugeVec
	rate      prometheus.Gauge
}

// NewPromSink registers the simulation metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	meetings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occusim_meetings_total",
		Help: "Drafted meetings by room and terminal state",
	}, []string{"room", "state", "reason"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "occusim_meeting_duration_minutes",
		Help:    "Committed meeting durations in minutes",
		Buckets: []float64{15, 30, 60, 90, 120, 180, 240},
	}, []string{"room"})
	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "occusim_room_peak_occupancy",
		Help: "Peak occupancy per room over the last recorded day",
	}, []string{"room", "kind"})
	rate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "occusim_cancellation_rate",
		Help: "Overall cancellation rate of the last simulated day",
	})

	if err := reg.Register(meetings); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			meetings = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(durations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			durations = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(occupancy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			occupancy = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rate); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rate = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{meetings: meetings, durations: durations, occupancy: occupancy, rate: rate}, nil
}

// RecordOccupancy tracks the peak occupancy seen per room.
func (s *PromSink) RecordOccupancy(points []coremetrics.RoomTick) error {
	peaks := make(map[string]coremetrics.RoomTick)
	for _, pt := range points {
		if best, ok := peaks[pt.Room]; !ok || pt.Count > best.Count {
			peaks[pt.Room] = pt
		}
	}
	for _, pt := range peaks {
		s.occupancy.WithLabelValues(pt.Room, pt.Kind).Set(float64(pt.Count))
	}
	return nil
}

// RecordMeeting increments the meeting counter and, for committed meetings,
// observes the duration histogram.
func (s *PromSink) RecordMeeting(ev coremetrics.MeetingEvent) error {
	s.meetings.WithLabelValues(ev.Room, ev.State, ev.Reason).Inc()
	if ev.State == "committed" {
		s.durations.WithLabelValues(ev.Room).Observe(float64(ev.DurationMinutes))
	}
	return nil
}

// RecordRunSummary sets the overall cancellation-rate gauge.
func (s *PromSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	s.rate.Set(sum.OverallRate)
	return nil
}
