package aggregate

import (
	"sort"

	"github.com/influxdata/tdigest"

	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// digestCompression trades accuracy for memory; 100 keeps a few KB per function.
const digestCompression = 100

// FunctionPercentiles holds approximate processing time quantiles in seconds.
type FunctionPercentiles struct {
	FuncCode string  `json:"func"`
	Samples  int     `json:"samples"`
	P50      float64 `json:"p50"`
	P90      float64 `json:"p90"`
	P99      float64 `json:"p99"`
}

type digestAcc struct {
	digest  *tdigest.TDigest
	samples int
}

func digestAccFor(m map[string]*digestAcc, code string) *digestAcc {
	acc, ok := m[code]
	if !ok {
		acc = &digestAcc{digest: tdigest.NewWithCompression(digestCompression)}
		m[code] = acc
	}
	return acc
}

// Percentiles estimates processing time quantiles of successful requests per
// function code. Functions with no successful request report zeros.
func Percentiles(tl *timeline.Timeline) []FunctionPercentiles {
	tl.Finalize()

	accs := make(map[string]*digestAcc)
	for _, rec := range tl.Records() {
		acc := digestAccFor(accs, rec.FuncCode)
		if !rec.Succeeded {
			continue
		}
		acc.digest.Add(rec.ProcDuration, 1)
		acc.samples++
	}

	out := make([]FunctionPercentiles, 0, len(accs))
	for code, acc := range accs {
		p := FunctionPercentiles{FuncCode: code, Samples: acc.samples}
		if acc.samples > 0 {
			p.P50 = acc.digest.Quantile(0.50)
			p.P90 = acc.digest.Quantile(0.90)
			p.P99 = acc.digest.Quantile(0.99)
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FuncCode < out[j].FuncCode })
	return out
}
