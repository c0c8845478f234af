package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/internal/fetch"
	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/metrics"
	"github.com/mlaudit/mlaudit/pkg/output"
)

type stubFunction struct {
	key   string
	score float64
}

func (s stubFunction) Key() string  { return s.key }
func (s stubFunction) Name() string { return s.key }
func (s stubFunction) Compute(data *artifact.Data) (metrics.Score, error) {
	return metrics.Score{Value: s.score}, nil
}

type stubFetcher struct {
	failFor map[string]bool
	delay   time.Duration
}

func (s *stubFetcher) Fetch(ctx context.Context, rec artifact.Record) (*artifact.Data, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.failFor[rec.Model.Name] {
		return nil, &fetch.Error{Resource: rec.Model.Raw, Err: errors.New("not found")}
	}
	return &artifact.Data{Model: &artifact.ModelInfo{ID: rec.Model.Name}}, nil
}

func newDriver(t *testing.T, fetcher fetch.Fetcher, workers int, ordered bool) *Driver {
	t.Helper()
	registry, err := metrics.NewRegistry(metrics.RegistryOptions{},
		stubFunction{key: "alpha", score: 0.4},
		stubFunction{key: "beta", score: 0.8},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	weights := metrics.WeightVector{"alpha": 0.5, "beta": 0.5}
	return New(Options{
		Fetcher:    fetcher,
		Registry:   registry,
		Scheduler:  metrics.NewScheduler(registry, metrics.CeilingMax),
		Aggregator: metrics.NewAggregator(weights, zerolog.Nop()),
		Renderer:   &output.NDJSONRenderer{},
		Workers:    workers,
		Ordered:    ordered,
		Logger:     zerolog.Nop(),
	})
}

func modelRecords(names ...string) []*artifact.Record {
	recs := make([]*artifact.Record, len(names))
	for i, n := range names {
		recs[i] = &artifact.Record{Model: artifact.URL{
			Raw: "https://huggingface.co/" + n, Category: artifact.CategoryModel, Name: n, Repo: n,
		}}
	}
	return recs
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var obj map[string]any
		if err := json.Unmarshal(sc.Bytes(), &obj); err != nil {
			t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
		}
		out = append(out, obj)
	}
	return out
}

func TestRunOneLinePerRecordInOrder(t *testing.T) {
	d := newDriver(t, &stubFetcher{}, 4, true)

	var buf bytes.Buffer
	recs := modelRecords("m1", "m2", "m3")
	if err := d.Run(context.Background(), recs, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if lines[i]["name"] != want {
			t.Errorf("line %d name = %v, want %s", i, lines[i]["name"], want)
		}
		if lines[i]["net_score"] != 0.6 {
			t.Errorf("line %d net_score = %v, want 0.6", i, lines[i]["net_score"])
		}
	}
}

func TestRunFetchFailureEmitsFailureRecord(t *testing.T) {
	d := newDriver(t, &stubFetcher{failFor: map[string]bool{"m2": true}}, 2, true)

	var buf bytes.Buffer
	if err := d.Run(context.Background(), modelRecords("m1", "m2"), &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	failed := lines[1]
	if failed["name"] != "m2" {
		t.Fatalf("line 1 name = %v", failed["name"])
	}
	if failed["net_score"] != float64(0) {
		t.Errorf("failed record net_score = %v, want 0", failed["net_score"])
	}
	if failed["alpha_error"] != metrics.ReasonFetchFailed {
		t.Errorf("alpha_error = %v", failed["alpha_error"])
	}
	if failed["beta_error"] != metrics.ReasonFetchFailed {
		t.Errorf("beta_error = %v", failed["beta_error"])
	}
}

func TestRunUnorderedEmitsAllRecords(t *testing.T) {
	d := newDriver(t, &stubFetcher{delay: 5 * time.Millisecond}, 4, false)

	var buf bytes.Buffer
	recs := modelRecords("m1", "m2", "m3", "m4")
	if err := d.Run(context.Background(), recs, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	seen := map[string]bool{}
	for _, l := range lines {
		seen[l["name"].(string)] = true
	}
	for _, want := range []string{"m1", "m2", "m3", "m4"} {
		if !seen[want] {
			t.Errorf("missing record %s", want)
		}
	}
}

func TestRunWorkerBound(t *testing.T) {
	// With one worker and a per-fetch delay, total time is at least the sum
	// of the delays.
	d := newDriver(t, &stubFetcher{delay: 20 * time.Millisecond}, 1, true)

	var buf bytes.Buffer
	start := time.Now()
	if err := d.Run(context.Background(), modelRecords("m1", "m2", "m3"), &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("elapsed %v, want at least 60ms with a single worker", elapsed)
	}
}

func TestRunTotalLatencyPositive(t *testing.T) {
	d := newDriver(t, &stubFetcher{delay: 2 * time.Millisecond}, 1, true)

	var buf bytes.Buffer
	if err := d.Run(context.Background(), modelRecords("m1"), &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	line := decodeLines(t, &buf)[0]
	if line["total_latency"].(float64) < 1 {
		t.Errorf("total_latency = %v, want >= 1ms", line["total_latency"])
	}
	if !strings.HasPrefix(line["name"].(string), "m1") {
		t.Errorf("name = %v", line["name"])
	}
}
