package support

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Notes lists the adjustments that shaped the result, for display.
func (r Result) Notes() []string {
	var notes []string
	switch {
	case r.EligibleChildren == 1:
		notes = append(notes, "single child surcharge (6.5%) applied")
	case r.EligibleChildren >= 3:
		notes = append(notes, "multiple children reduction (21.7%) applied")
	}
	if r.Residence != "" && r.Residence != ResidenceNone {
		notes = append(notes, fmt.Sprintf("%s residence adjustment applied", r.Residence))
	}
	if r.ExtraExpenses > 0 {
		notes = append(notes, fmt.Sprintf("extra expenses of %s added", humanize.Comma(r.ExtraExpenses)))
	}
	return notes
}
