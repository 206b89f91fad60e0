// Package report renders search results and dataset summaries for the
// gridsearch CLI: a text table for interactive runs, markdown for pasting
// into docs, and JSON for downstream tooling.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/thalesfsp/gridsearch"
	"github.com/thalesfsp/gridsearch/dataset"
)

// Output formats accepted by Render and Summaries.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// trialRecord is the JSON shape of one trial. Score is a pointer so a failed
// trial serializes as null rather than an unmarshalable NaN.
type trialRecord struct {
	Index      int            `json:"index"`
	Params     map[string]any `json:"params"`
	Score      *float64       `json:"score"`
	Error      string         `json:"error,omitempty"`
	DurationMS float64        `json:"duration_ms"`
}

// reportRecord is the JSON shape of a whole search report.
type reportRecord struct {
	RunID     string        `json:"run_id"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	ElapsedMS float64       `json:"elapsed_ms"`
	Best      *trialRecord  `json:"best"`
	Trials    []trialRecord `json:"trials"`
}

// Render writes the search report in the requested format. The table and
// markdown forms list every trial in enumeration order and close with a
// summary line that distinguishes "best found" from "no viable combination";
// the JSON form carries the same data machine-readably.
func Render(w io.Writer, rep *gridsearch.Report, format string) error {
	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, rep)
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatTable, "":
		return writeTable(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeTable(w io.Writer, rep *gridsearch.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TRIAL\tPARAMS\tSCORE\tDURATION")
	fmt.Fprintln(tw, strings.Repeat("-", 72))

	for _, t := range rep.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			t.Index, t.Params, scoreCell(t), t.Duration.Round(time.Millisecond))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryLine(rep))

	return nil
}

func writeMarkdown(w io.Writer, rep *gridsearch.Report) error {
	fmt.Fprintln(w, "| Trial | Params | Score | Duration |")
	fmt.Fprintln(w, "|---|---|---|---|")

	for _, t := range rep.Results {
		fmt.Fprintf(w, "| %d | %s | %s | %s |\n",
			t.Index, t.Params, scoreCell(t), t.Duration.Round(time.Millisecond))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryLine(rep))

	return nil
}

func writeJSON(w io.Writer, rep *gridsearch.Report) error {
	out := reportRecord{
		RunID:     rep.RunID,
		Completed: rep.Completed,
		Failed:    rep.Failed,
		ElapsedMS: float64(rep.Elapsed) / float64(time.Millisecond),
		Trials:    make([]trialRecord, len(rep.Results)),
	}

	for i, t := range rep.Results {
		out.Trials[i] = toRecord(t)
	}

	if rep.Best != nil {
		best := toRecord(*rep.Best)
		out.Best = &best
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func toRecord(t gridsearch.TrialResult) trialRecord {
	rec := trialRecord{
		Index:      t.Index,
		Params:     t.Params.Map(),
		DurationMS: float64(t.Duration) / float64(time.Millisecond),
	}

	if t.Failed() {
		rec.Error = t.Err.Error()
	} else if !math.IsNaN(t.Score) {
		score := t.Score
		rec.Score = &score
	}

	return rec
}

// scoreCell renders a trial's score column: the score for a success, the
// failed stage and cause for a failure.
func scoreCell(t gridsearch.TrialResult) string {
	if t.Failed() {
		return fmt.Sprintf("FAILED: %v", t.Err)
	}

	return fmt.Sprintf("%.6g", t.Score)
}

// summaryLine is the closing line of the human-readable formats.
func summaryLine(rep *gridsearch.Report) string {
	if rep.Best == nil {
		return fmt.Sprintf("no viable combination (%d of %d trials failed)",
			rep.Failed, rep.Completed)
	}

	return fmt.Sprintf("best: (%s) score=%.6g [trial %d, %d/%d trials ok, %s]",
		rep.Best.Params, rep.Best.Score, rep.Best.Index,
		rep.Completed-rep.Failed, rep.Completed, rep.Elapsed.Round(time.Millisecond))
}

// Summaries writes per-column dataset statistics in the requested format,
// one row per column, in the order given.
func Summaries(w io.Writer, summaries []dataset.Summary, format string) error {
	switch format {
	case FormatMarkdown:
		fmt.Fprintln(w, "| Column | Count | Mean | StdDev | Min | Q25 | Median | Q75 | Max |")
		fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|")

		for _, s := range summaries {
			fmt.Fprintf(w, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
				s.Column, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}

		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(summaries)
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

		fmt.Fprintln(tw, "COLUMN\tCOUNT\tMEAN\tSTDDEV\tMIN\tQ25\tMEDIAN\tQ75\tMAX")
		fmt.Fprintln(tw, strings.Repeat("-", 72))

		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
				s.Column, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}

		return tw.Flush()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
