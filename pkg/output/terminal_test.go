package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlaudit/mlaudit/pkg/output"
)

func TestTerminalRenderNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := &output.TerminalRenderer{}
	if err := r.Render(&buf, sampleRecord()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Error("expected no ANSI escapes with NO_COLOR set")
	}
	if !strings.Contains(out, "bert-base-uncased") {
		t.Error("missing record name")
	}
	if !strings.Contains(out, "Grade B") {
		t.Errorf("expected grade B for 0.679, got:\n%s", out)
	}
	if !strings.Contains(out, "FAILED") {
		t.Error("failed metric should be marked FAILED")
	}
	if !strings.Contains(out, "timeout") {
		t.Error("failure reason should be shown")
	}
}

func TestGradeFromScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{1.0, "A"},
		{0.8, "A"},
		{0.79, "B"},
		{0.6, "B"},
		{0.45, "C"},
		{0.2, "D"},
		{0.19, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := output.GradeFromScore(tc.score); got != tc.want {
			t.Errorf("GradeFromScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
