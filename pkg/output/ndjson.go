package output

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

// NDJSONRenderer writes one compact JSON object per record, in the audit
// wire format: name, category, net_score with its latency, then each metric
// value and latency in registry order. Latencies are integer milliseconds.
// A failed metric reports score 0 and an extra "<key>_error" field carrying
// the failure reason, so the record stays auditable.
type NDJSONRenderer struct{}

func (r *NDJSONRenderer) Render(w io.Writer, rec *metrics.Record) error {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField(&buf, "name", rec.Name)
	writeField(&buf, "category", rec.Category)
	writeField(&buf, "net_score", round3(rec.NetScore))
	writeField(&buf, "net_score_latency", rec.NetScoreLatency.Milliseconds())

	for _, res := range rec.Results {
		if len(res.Sub) > 0 && !res.Failed {
			sub := make(map[string]float64, len(res.Sub))
			for k, v := range res.Sub {
				sub[k] = round3(v)
			}
			writeField(&buf, res.Key, sub)
		} else {
			score := res.Score
			if res.Failed {
				score = 0
			}
			writeField(&buf, res.Key, round3(score))
		}
		writeField(&buf, res.Key+"_latency", res.Latency.Milliseconds())
		if res.Failed {
			writeField(&buf, res.Key+"_error", res.Reason)
		}
	}

	writeField(&buf, "total_latency", rec.TotalLatency.Milliseconds())

	out := buf.Bytes()
	out[len(out)-1] = '}' // replace trailing comma
	out = append(out, '\n')

	_, err := w.Write(out)
	return err
}

func writeField(buf *bytes.Buffer, key string, value any) {
	k, _ := json.Marshal(key)
	v, err := json.Marshal(value)
	if err != nil {
		v = []byte("null")
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	buf.WriteByte(',')
}

// round3 keeps scores readable in the wire format without changing their
// ordering.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
