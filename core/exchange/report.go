package exchange

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/record"
)

// Report statuses
const (
	StatusMet    = "Met"
	StatusNotMet = "Not Met"
)

// ExportAttainmentReport writes one row per course outcome with its attainment against target.
// Percentages are rounded to whole numbers before they are compared with the target.
func ExportAttainmentReport(w io.Writer, course record.Course) error {
	cw := csv.NewWriter(w)
	header := []string{"CO", "Description", "Attained", "Total", "Attainment %", "Target %", "Status"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for _, a := range record.OutcomeAttainment(course) {
		desc := a.Description
		if desc == "" {
			desc = "-"
		}
		pct := record.Round(a.Percentage, 0)
		status := StatusNotMet
		if pct >= a.Target {
			status = StatusMet
		}
		row := []string{
			a.Code,
			desc,
			strconv.Itoa(a.Attained),
			strconv.Itoa(a.Students),
			formatFloat(pct),
			formatFloat(a.Target),
			status,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing %s", a.Code)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
