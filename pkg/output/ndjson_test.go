package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mlaudit/mlaudit/pkg/metrics"
	"github.com/mlaudit/mlaudit/pkg/output"
)

func sampleRecord() *metrics.Record {
	return &metrics.Record{
		Name:            "bert-base-uncased",
		Category:        "MODEL",
		NetScore:        0.6789,
		NetScoreLatency: 3 * time.Millisecond,
		Results: []metrics.Result{
			{Key: "license", Score: 1, Latency: 12 * time.Millisecond},
			{Key: "size_score", Score: 0.5, Sub: map[string]float64{
				"raspberry_pi": 0.25,
				"desktop_pc":   0.75,
			}, Latency: 4 * time.Millisecond},
			{Key: "bus_factor", Failed: true, Reason: metrics.ReasonTimeout, Latency: 30000 * time.Millisecond},
		},
		TotalLatency: 30020 * time.Millisecond,
	}
}

func TestNDJSONRenderValidJSONLine(t *testing.T) {
	var buf bytes.Buffer
	r := &output.NDJSONRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("expected trailing newline")
	}
	if strings.Count(line, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", line)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if obj["name"] != "bert-base-uncased" {
		t.Errorf("name = %v", obj["name"])
	}
	if obj["category"] != "MODEL" {
		t.Errorf("category = %v", obj["category"])
	}
	if obj["net_score"] != 0.679 {
		t.Errorf("net_score = %v, want 0.679", obj["net_score"])
	}
	if obj["net_score_latency"] != float64(3) {
		t.Errorf("net_score_latency = %v", obj["net_score_latency"])
	}
	if obj["total_latency"] != float64(30020) {
		t.Errorf("total_latency = %v", obj["total_latency"])
	}
}

func TestNDJSONEveryMetricPresent(t *testing.T) {
	var buf bytes.Buffer
	r := &output.NDJSONRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"license", "size_score", "bus_factor"} {
		if _, ok := obj[key]; !ok {
			t.Errorf("missing metric field %q", key)
		}
		if _, ok := obj[key+"_latency"]; !ok {
			t.Errorf("missing latency field %q", key+"_latency")
		}
	}
}

func TestNDJSONFailedMetric(t *testing.T) {
	var buf bytes.Buffer
	r := &output.NDJSONRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatal(err)
	}

	if obj["bus_factor"] != float64(0) {
		t.Errorf("failed metric score = %v, want 0", obj["bus_factor"])
	}
	if obj["bus_factor_error"] != "timeout" {
		t.Errorf("bus_factor_error = %v", obj["bus_factor_error"])
	}
	if _, ok := obj["license_error"]; ok {
		t.Error("healthy metric should not carry an error field")
	}
}

func TestNDJSONSubScores(t *testing.T) {
	var buf bytes.Buffer
	r := &output.NDJSONRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatal(err)
	}

	sub, ok := obj["size_score"].(map[string]any)
	if !ok {
		t.Fatalf("size_score = %T, want object", obj["size_score"])
	}
	if sub["raspberry_pi"] != 0.25 || sub["desktop_pc"] != 0.75 {
		t.Errorf("sub-scores = %v", sub)
	}
}

func TestNDJSONFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	r := &output.NDJSONRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	line := buf.String()
	order := []string{`"name"`, `"category"`, `"net_score"`, `"license"`, `"size_score"`, `"bus_factor"`, `"total_latency"`}
	last := -1
	for _, field := range order {
		idx := strings.Index(line, field)
		if idx < 0 {
			t.Fatalf("field %s missing", field)
		}
		if idx < last {
			t.Errorf("field %s out of order", field)
		}
		last = idx
	}
}
