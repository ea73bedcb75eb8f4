package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arkilian/schedread/pkg/types"
)

// WriteSummary prints project properties, model counts, read statistics and
// the indented task tree.
func WriteSummary(w io.Writer, res *Result) error {
	s := res.Schedule
	p := s.Properties

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Project:\t%s\n", p.Name)
	if p.Author != "" {
		fmt.Fprintf(tw, "Author:\t%s\n", p.Author)
	}
	fmt.Fprintf(tw, "Format:\t%s\n", p.Format)
	if p.ProjectID != 0 {
		fmt.Fprintf(tw, "Project ID:\t%d\n", p.ProjectID)
	}
	fmt.Fprintf(tw, "Fingerprint:\t%016x\n", p.Fingerprint)
	fmt.Fprintf(tw, "Start:\t%s\n", formatDate(p.Start))
	fmt.Fprintf(tw, "Finish:\t%s\n", formatDate(p.Finish))
	fmt.Fprintf(tw, "Last saved:\t%s\n", formatDate(p.LastSaved))
	if s.DefaultCalendar != nil {
		fmt.Fprintf(tw, "Default calendar:\t%s\n", s.DefaultCalendar.Name)
	}
	fmt.Fprintf(tw, "Calendars:\t%d\n", len(s.Calendars))
	fmt.Fprintf(tw, "Resources:\t%d\n", len(s.Resources))
	fmt.Fprintf(tw, "Tasks:\t%d\n", len(s.AllTasks()))
	fmt.Fprintf(tw, "Relations:\t%d\n", len(s.Relations))
	fmt.Fprintf(tw, "Assignments:\t%d\n", len(s.Assignments))
	for _, c := range res.Stats.SkipSummary() {
		fmt.Fprintf(tw, "Skipped %s:\t%d (%s)\n", c.Name, c.Count, reasons(c.Reasons))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Tasks) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	var err error
	walk(s.Tasks, func(t *types.Task) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%s%d %s%s\n", strings.Repeat("  ", max(t.OutlineLevel-1, 0)), t.ID, t.Name, marker(t))
	})
	return err
}

func walk(tasks []*types.Task, fn func(*types.Task)) {
	for _, t := range tasks {
		fn(t)
		walk(t.Children, fn)
	}
}

func marker(t *types.Task) string {
	switch {
	case t.Milestone:
		return " ◆"
	case t.Summary:
		return ""
	case t.PercentComplete > 0:
		return fmt.Sprintf(" [%.0f%%]", t.PercentComplete)
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func reasons(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}
