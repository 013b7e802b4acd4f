package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// severity colorizers, matching the style of cmd/ailang/main.go's
// package-level SprintFunc palette.
var (
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	codeColor = color.New(color.FgCyan).SprintFunc()
)

// Log accumulates Reports across a compilation run without unwinding:
// every pass appends what it finds and keeps going, so a single run can
// surface every independent problem instead of stopping at the first.
type Log struct {
	reports []*Report
}

// NewLog returns an empty diagnostic log.
func NewLog() *Log { return &Log{} }

// Add appends r, ignoring a nil Report (so callers can write
// `log.Add(checkThing())` unconditionally).
func (l *Log) Add(r *Report) {
	if r == nil {
		return
	}
	l.reports = append(l.reports, r)
}

// Reports returns the accumulated reports in the order they were added.
func (l *Log) Reports() []*Report { return l.reports }

// HasErrors reports whether any report was accumulated. All Reports in
// this compiler are hard errors; there is no separate warning severity
// in the pipeline today, so this is equivalent to len(Reports()) > 0.
func (l *Log) HasErrors() bool { return len(l.reports) > 0 }

// Count returns how many reports carry the given phase.
func (l *Log) Count(phase string) int {
	n := 0
	for _, r := range l.reports {
		if r.Phase == phase {
			n++
		}
	}
	return n
}

// SortBySpan orders the accumulated reports by source position, for
// stable, deterministic CLI and golden-file output.
func (l *Log) SortBySpan() {
	sort.SliceStable(l.reports, func(i, j int) bool {
		a, b := l.reports[i], l.reports[j]
		if a.Span == nil || b.Span == nil {
			return b.Span != nil
		}
		if a.Span.Start.File != b.Span.Start.File {
			return a.Span.Start.File < b.Span.Start.File
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		return a.Span.Start.Column < b.Span.Start.Column
	})
}

// WriteTo renders the accumulated reports as colorized, human-readable
// text.
func (l *Log) WriteTo(w io.Writer) {
	for _, r := range l.reports {
		loc := ""
		if r.Span != nil {
			loc = r.Span.String() + ": "
		}
		fmt.Fprintf(w, "%s%s [%s] %s\n", loc, errColor("error"), codeColor(r.Code), r.Message)
		if r.Fix != nil {
			fmt.Fprintf(w, "  %s %s\n", warnColor("fix:"), r.Fix.Description)
		}
	}
}
