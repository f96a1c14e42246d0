package tree

import (
	"context"
	"errors"
	"fmt"

	"github.com/wkalt/dircloud/report"
	"github.com/wkalt/dircloud/util/log"
)

// maxWarnings bounds the number of parse errors retained in LoadStats.
const maxWarnings = 20

// LoadStats summarizes a report load.
type LoadStats struct {
	Records   int
	Malformed int
	Warnings  []report.ParseError
}

// Load consumes a report scanner and builds a tree. Malformed lines are
// logged and counted but do not fail the load; a report with no valid records
// fails with EmptyInputError.
func Load(ctx context.Context, s *report.Scanner) (*Tree, LoadStats, error) {
	stats := LoadStats{}
	b := NewBuilder()
	for s.Next() {
		rec, err := s.Record()
		if err != nil {
			var perr report.ParseError
			if !errors.As(err, &perr) {
				return nil, stats, err
			}
			stats.Malformed++
			if len(stats.Warnings) < maxWarnings {
				stats.Warnings = append(stats.Warnings, perr)
			}
			log.Debugw(ctx, "skipping malformed report line", "line", perr.Line, "reason", perr.Reason)
			continue
		}
		b.Add(rec)
	}
	if err := s.Err(); err != nil {
		return nil, stats, err
	}
	stats.Records = b.Records()
	if stats.Malformed > 0 {
		log.Warnw(ctx, "report contains malformed lines", "malformed", stats.Malformed, "records", stats.Records)
	}
	if stats.Records == 0 {
		return nil, stats, EmptyInputError{Malformed: stats.Malformed}
	}
	t, err := b.Finish()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to finish tree: %w", err)
	}
	return t, stats, nil
}
