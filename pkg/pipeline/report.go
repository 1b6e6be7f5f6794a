package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// LogDiagnostics writes one warning per diagnostic kind present in res and
// the individual findings at debug level.
func LogDiagnostics(logger *log.Logger, res hierarchy.Result) {
	if logger == nil || len(res.Diagnostics) == 0 {
		return
	}

	summaries := []struct {
		kind hierarchy.DiagnosticKind
		msg  string
	}{
		{hierarchy.KindDanglingReference, "relationships reference missing or filtered-out positions"},
		{hierarchy.KindCycle, "reporting cycles closed with markers"},
		{hierarchy.KindIsolatedCycle, "positions only reachable through a cycle"},
		{hierarchy.KindMultipleParents, "positions report to more than one manager"},
	}
	for _, s := range summaries {
		if n := res.Count(s.kind); n > 0 {
			logger.Warn(s.msg, "count", n)
		}
	}

	for _, d := range res.Diagnostics {
		logger.Debug(d.Message, "kind", d.Kind, "position", d.PositionID)
	}
}
