package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

// TerminalRenderer renders an audit record as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func gradeColor(grade string) string {
	if noColor() {
		return ""
	}
	switch grade {
	case "A", "B":
		return colorGreen
	case "C":
		return colorYellow
	case "D", "F":
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, rec *metrics.Record) error {
	grade := GradeFromScore(rec.NetScore)
	gc := gradeColor(grade)

	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("%s: Grade %s — Net score %.3f",
			rec.Name, colored(grade, gc), rec.NetScore)))

	width := 0
	for _, res := range rec.Results {
		if len(res.Key) > width {
			width = len(res.Key)
		}
	}

	for _, res := range rec.Results {
		pad := strings.Repeat(" ", width-len(res.Key))
		switch {
		case res.Failed:
			fmt.Fprintf(w, "  %s%s  %s %s\n",
				res.Key, pad,
				colored("FAILED", colorRed),
				dim(fmt.Sprintf("(%s, %dms)", res.Reason, res.Latency.Milliseconds())))
		default:
			fmt.Fprintf(w, "  %s%s  %.3f %s\n",
				res.Key, pad, res.Score,
				dim(fmt.Sprintf("(%dms)", res.Latency.Milliseconds())))
		}
	}

	fmt.Fprintf(w, "\nTotal: %dms\n", rec.TotalLatency.Milliseconds())
	return nil
}
