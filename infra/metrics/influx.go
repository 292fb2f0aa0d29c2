package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/mealprep/core/metrics"
	"github.com/kilianp07/mealprep/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxDB v2 bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes planning records to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
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

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RecordScheduleRun writes one schedule_run point.
func (s *InfluxSink) RecordScheduleRun(run coremetrics.ScheduleRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("plan_id", run.PlanID).
		AddTag("component", "planner").
		AddField("session_minutes", run.SessionMinutes).
		AddField("tasks", run.Tasks).
		AddField("overflows", run.Overflows).
		AddField("makespan_minutes", run.Makespan).
		AddField("mean_utilization", round3(run.MeanUtilization)).
		AddField("peak_utilization", round3(run.PeakUtilization)).
		AddField("elapsed_ms", round3(run.Elapsed.Seconds()*1000)).
		SetTime(run.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTaskPlacements writes one task_placement point per task in a single request.
func (s *InfluxSink) RecordTaskPlacements(ps []coremetrics.TaskPlacement) error {
	if len(ps) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ps))
	for _, pl := range ps {
		p := write.NewPointWithMeasurement("task_placement").
			AddTag("plan_id", pl.PlanID).
			AddTag("appliance", pl.Appliance).
			AddTag("parallel", strconv.FormatBool(pl.Parallel)).
			AddTag("clamped", strconv.FormatBool(pl.Clamped))
		if pl.TaskID != "" {
			p = p.AddTag("task_id", pl.TaskID)
		}
		p = p.AddField("task_name", pl.TaskName).
			AddField("start_minute", pl.StartMinute).
			AddField("duration_minutes", pl.DurationMinutes).
			SetTime(pl.Time)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordConflicts writes the outcome of a conflict check.
func (s *InfluxSink) RecordConflicts(r coremetrics.ConflictReport) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("conflict_check").
		AddTag("component", "conflict_detector").
		AddField("tasks", r.Tasks).
		AddField("conflicts", r.Total()).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEstimate writes an estimated session length.
func (s *InfluxSink) RecordEstimate(ev coremetrics.EstimateEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("session_estimate").
		AddTag("component", "estimator").
		AddField("tasks", ev.Tasks).
		AddField("duration_minutes", ev.DurationMinutes).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
