package reconcile

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// WriteTable prints a human-readable run report.
func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Reconciliation run %s ===\n\n", r.RunID)
	fmt.Fprintf(tw, "State: %s\tDry run: %t\tTook: %s\n\n", r.State, r.DryRun, r.Finished.Sub(r.Started).Round(time.Millisecond))

	kinds := r.kinds()
	writeCountsTable(tw, kinds)
	writeFailuresTable(tw, kinds)

	for _, k := range kinds {
		if len(k.NotPublishable) > 0 {
			fmt.Fprintf(tw, "\nNot publishable (%s): %s\n", k.Kind, strings.Join(k.NotPublishable, ", "))
		}
	}

	tw.Flush()
}

func (r *Report) kinds() []*KindReport {
	var out []*KindReport
	for _, k := range []*KindReport{r.Authors, r.Articles} {
		if k != nil {
			out = append(out, k)
		}
	}
	return out
}

func writeCountsTable(tw *tabwriter.Writer, kinds []*KindReport) {
	header := []string{"Kind", "Wiki", "Index", "To update", "To delete", "Updated", "Deleted", "Failed"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	writeSeparator(tw, len(header))

	for _, k := range kinds {
		row := []string{
			string(k.Kind),
			fmt.Sprintf("%d", k.SourceCount),
			fmt.Sprintf("%d", k.IndexCount),
			fmt.Sprintf("%d", len(k.Plan.Upsert)),
			fmt.Sprintf("%d", len(k.Plan.Delete)),
			fmt.Sprintf("%d", k.Upserted),
			fmt.Sprintf("%d", k.Deleted),
			fmt.Sprintf("%d", len(k.Failures)),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
}

func writeFailuresTable(tw *tabwriter.Writer, kinds []*KindReport) {
	total := 0
	for _, k := range kinds {
		total += len(k.Failures)
	}
	if total == 0 {
		return
	}

	fmt.Fprintf(tw, "\nFailures (%d)\n\n", total)
	header := []string{"Kind", "Op", "ID", "Error"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	writeSeparator(tw, len(header))
	for _, k := range kinds {
		for _, f := range k.Failures {
			fmt.Fprintln(tw, strings.Join([]string{string(k.Kind), f.Op, f.ID, f.Error}, "\t"))
		}
	}
}

func writeSeparator(tw *tabwriter.Writer, n int) {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}
