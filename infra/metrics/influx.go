package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/occusim/core/metrics"
	"github.com/kilianp07/occusim/infra/logger"
)

// InfluxSink writes occupancy ticks and run summaries to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordOccupancy writes one point per room observation.
func (s *InfluxSink) RecordOccupancy(points []coremetrics.RoomTick) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, pt := range points {
		p := write.NewPointWithMeasurement("room_occupancy").
			AddTag("room", pt.Room).
			AddTag("kind", pt.Kind).
			AddField("occupied", pt.Occupied).
			AddField("count", pt.Count).
			AddField("max_occupancy", pt.Max).
			SetTime(pt.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordMeeting writes the terminal state of a drafted meeting.
func (s *InfluxSink) RecordMeeting(ev coremetrics.MeetingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("meeting_event").
		AddTag("room", ev.Room).
		AddTag("state", ev.State).
		AddTag("reason", ev.Reason).
		AddTag("day", strconv.Itoa(ev.Day)).
		AddField("attempts", ev.Attempts).
		AddField("duration_minutes", ev.DurationMinutes).
		AddField("attendees", ev.Attendees).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunSummary writes one summary point per simulated day.
func (s *InfluxSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("day", strconv.Itoa(sum.Day)).
		AddField("committed", sum.Committed).
		AddField("cancelled", sum.Cancelled).
		AddField("overall_cancellation_rate", sum.OverallRate).
		SetTime(sum.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
