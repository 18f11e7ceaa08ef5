package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nhle/mailgroom/internal/pipeline"
)

// csvHeader is the column layout of an exported action log.
var csvHeader = []string{"step", "field", "entry", "outcome", "reason", "suggestion"}

// WriteCSV exports every per-entry outcome of the given actions: one
// row per validation outcome and one per removal. Reorder-only steps
// contribute no rows.
func WriteCSV(w io.Writer, actions []pipeline.ActionRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, action := range actions {
		for _, o := range action.Outcomes {
			row := []string{
				action.Step, string(o.Field), o.Entry,
				o.Status, o.Reason, o.Suggestion,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}

		// Validate removals already appear as error outcomes.
		if action.Step == pipeline.StepValidate {
			continue
		}
		for _, r := range action.Removed {
			row := []string{
				action.Step, string(r.Field), r.Entry,
				"removed", r.Reason, "",
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
