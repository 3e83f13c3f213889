package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dnsrecon/bulk"
	"dnsrecon/engine"
	"dnsrecon/osint"
)

// writeResult renders an operation result. The default is indented JSON,
// which every result shape serializes to directly; "simple" gives a terse
// tab-separated view for the shapes where one makes sense and falls back
// to JSON for the analytical reports.
func writeResult(w io.Writer, format string, result interface{}) error {
	if format != "simple" {
		return writeJSON(w, result)
	}

	switch r := result.(type) {
	case engine.QueryResult:
		writeQueryResult(w, r)
	case *bulk.Result:
		for _, item := range r.Results {
			writeQueryResult(w, item)
		}
		fmt.Fprintf(w, "# %d items, %d ok, %d failed, %.3fs\n",
			r.ItemCount, r.Succeeded, r.Failed, r.TotalTimeSeconds)
	case *bulk.AllResult:
		for rt, records := range r.Records {
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Domain, rt, rec)
			}
		}
		for rt, desc := range r.Errors {
			fmt.Fprintf(w, "%s\t%s\tERROR\t%s\n", r.Domain, rt, desc.Kind)
		}
	case *osint.ConsistencyReport:
		fmt.Fprintf(w, "%s\t%s\tconsistent=%t\ttrust=%s\n",
			r.Domain, r.RecordType, r.IsConsistent, r.TrustLevel)
	case *osint.WildcardReport:
		fmt.Fprintf(w, "%s\twildcard=%t\trisk=%s\t%s\n",
			r.Domain, r.HasWildcard, r.RiskLevel, strings.Join(r.WildcardRecords, ","))
	case *osint.TimingProfile:
		fmt.Fprintf(w, "%s\t%s\trating=%s\tavg=%.4fs\thigh_variance=%t\n",
			r.Domain, r.RecordType, r.PerformanceRating, statAvg(r), r.HighVariance)
	default:
		return writeJSON(w, result)
	}
	return nil
}

func writeQueryResult(w io.Writer, r engine.QueryResult) {
	if r.Error != nil {
		fmt.Fprintf(w, "%s\t%s\tERROR\t%s\n", r.Domain, r.RecordType, r.Error.Kind)
		return
	}
	for _, rec := range r.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Domain, r.RecordType, rec)
	}
}

func writeJSON(w io.Writer, result interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func statAvg(r *osint.TimingProfile) float64 {
	if r.Stats == nil {
		return 0
	}
	return r.Stats.AvgTime
}
