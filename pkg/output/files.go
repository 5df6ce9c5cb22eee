package output

import (
	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// FileNames names the report files written into the output directory.
type FileNames struct {
	Requests    string
	Summary     string
	Intervals   string
	Timeline    string
	Percentiles string

	// PerFunction enables one requests file per function code.
	PerFunction bool
}

// Written lists the paths produced by WriteReports.
type Written struct {
	Requests    string
	Summary     string
	Intervals   string
	Timeline    string
	Percentiles string

	// PerFunction maps function codes to their requests file.
	PerFunction map[string]string
}

// WriteReports renders every report in res. Files written before a failure stay on disk.
func WriteReports(w *Writer, names FileNames, res *aggregate.Results) (*Written, error) {
	records := res.Timeline.Records()
	out := &Written{PerFunction: make(map[string]string)}
	var err error

	requestLines := make([]string, 0, len(records))
	for _, rec := range records {
		requestLines = append(requestLines, RequestLine(rec))
	}
	if out.Requests, err = w.WriteLines(names.Requests, requestLines); err != nil {
		return out, err
	}

	if names.PerFunction {
		byFunc := make(map[string][]*timeline.RequestRecord)
		for _, rec := range records {
			byFunc[rec.FuncCode] = append(byFunc[rec.FuncCode], rec)
		}
		for _, f := range res.Functions {
			lines := make([]string, 0, len(byFunc[f.FuncCode]))
			for _, rec := range byFunc[f.FuncCode] {
				lines = append(lines, RequestLine(rec))
			}
			path, err := w.WriteLines(FunctionFileName(f.FuncCode), lines)
			if err != nil {
				return out, err
			}
			out.PerFunction[f.FuncCode] = path
		}
	}

	summaryLines := make([]string, 0, len(res.Functions))
	for _, f := range res.Functions {
		summaryLines = append(summaryLines, SummaryLine(f))
	}
	if out.Summary, err = w.WriteLines(names.Summary, summaryLines); err != nil {
		return out, err
	}

	intervalLines := make([]string, 0, len(res.Intervals))
	for _, b := range res.Intervals {
		intervalLines = append(intervalLines, IntervalLine(b))
	}
	if out.Intervals, err = w.WriteLines(names.Intervals, intervalLines); err != nil {
		return out, err
	}

	timelineLines := make([]string, 0, len(res.Sorted))
	for _, row := range res.Sorted {
		timelineLines = append(timelineLines, TimelineLine(row))
	}
	if out.Timeline, err = w.WriteLines(names.Timeline, timelineLines); err != nil {
		return out, err
	}

	percentileLines := make([]string, 0, len(res.Percentiles))
	for _, p := range res.Percentiles {
		percentileLines = append(percentileLines, PercentileLine(p))
	}
	if out.Percentiles, err = w.WriteLines(names.Percentiles, percentileLines); err != nil {
		return out, err
	}

	return out, nil
}
