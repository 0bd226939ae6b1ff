package tasks

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/news-pulse/app/feed"
)

const summaryRule = "============================================================"

type SourceStats struct {
	Name     string
	Articles int
	Rejected map[feed.RejectReason]int
	Failed   bool
	Error    string
	Duration time.Duration
}

// RunSummary is the account of one ingestion run.
type RunSummary struct {
	RunID        string
	Started      time.Time
	Finished     time.Time
	LookbackDays int
	Cutoff       time.Time
	Sources      []SourceStats // completion order
	Collected    int
	Saved        int
	Duplicates   int
	SaveErrors   int
}

func NewRunSummary(started time.Time, lookbackDays int) *RunSummary {
	return &RunSummary{
		RunID:        uuid.NewString(),
		Started:      started,
		LookbackDays: lookbackDays,
		Cutoff:       started.Add(-time.Duration(lookbackDays) * 24 * time.Hour),
	}
}

func (s *RunSummary) AddSource(result SourceResult) {
	stats := SourceStats{
		Name:     result.Source,
		Articles: len(result.Articles),
		Rejected: result.Rejected,
		Duration: result.Duration,
	}
	if result.Err != nil {
		stats.Failed = true
		stats.Articles = 0
		stats.Error = result.Err.Error()
	}
	s.Sources = append(s.Sources, stats)
}

func (s *RunSummary) ApplySaveReport(report SaveReport) {
	s.Saved = report.Saved
	s.Duplicates = report.Duplicates
	s.SaveErrors = report.ErrorCount()
}

func (s *RunSummary) Finish(finished time.Time) {
	s.Finished = finished
}

func (s *RunSummary) SucceededSources() int {
	return len(s.Sources) - s.FailedSources()
}

func (s *RunSummary) FailedSources() int {
	failed := 0
	for _, source := range s.Sources {
		if source.Failed {
			failed++
		}
	}
	return failed
}

// Rejected totals entry rejections across all sources.
func (s *RunSummary) Rejected() map[feed.RejectReason]int {
	totals := make(map[feed.RejectReason]int)
	for _, source := range s.Sources {
		for reason, count := range source.Rejected {
			totals[reason] += count
		}
	}
	return totals
}

// Write prints the summary for humans. Sources are listed by name.
func (s *RunSummary) Write(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, summaryRule)
	fmt.Fprintf(&b, " Run %s\n", s.RunID)
	fmt.Fprintf(&b, " Articles since %s (last %d days)\n", s.Cutoff.Format("2006-01-02 15:04:05"), s.LookbackDays)
	fmt.Fprintln(&b, summaryRule)

	sources := slices.Clone(s.Sources)
	slices.SortFunc(sources, func(a, b SourceStats) int { return strings.Compare(a.Name, b.Name) })

	for _, source := range sources {
		if source.Failed {
			fmt.Fprintf(&b, " %-25s | Failed: %s\n", source.Name, source.Error)
			continue
		}
		fmt.Fprintf(&b, " %-25s | %3d articles\n", source.Name, source.Articles)
	}

	fmt.Fprintln(&b, summaryRule)
	fmt.Fprintf(&b, " Sources: %d succeeded, %d failed\n", s.SucceededSources(), s.FailedSources())
	fmt.Fprintf(&b, " Total articles collected: %d\n", s.Collected)

	rejected := s.Rejected()
	if len(rejected) > 0 {
		parts := make([]string, 0, len(rejected))
		for _, reason := range slices.Sorted(maps.Keys(rejected)) {
			parts = append(parts, fmt.Sprintf("%s=%d", string(reason), rejected[reason]))
		}
		fmt.Fprintf(&b, " Entries rejected: %s\n", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, " Saved: %d, duplicates: %d, failed to save: %d\n", s.Saved, s.Duplicates, s.SaveErrors)

	if !s.Finished.IsZero() {
		fmt.Fprintf(&b, " Finished at %s (%s)\n", s.Finished.Format("2006-01-02 15:04:05"), s.Finished.Sub(s.Started).Round(time.Millisecond))
	}
	fmt.Fprintln(&b, summaryRule)

	_, err := io.WriteString(w, b.String())
	return err
}
