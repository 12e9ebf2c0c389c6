package report

import (
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/DjordjeVuckovic/cptool/pkg/utils"
)

// Report summarizes one batch. AcceptedPct is rounded to one decimal.
type Report struct {
	Grammar     string             `json:"grammar"`
	Total       int                `json:"total"`
	Accepted    int                `json:"accepted"`
	Rejected    int                `json:"rejected"`
	AcceptedPct float64            `json:"acceptedPct"`
	Elapsed     time.Duration      `json:"elapsedNs"`
	Verdicts    []*verdict.Verdict `json:"verdicts"`
}

// Generate summarizes verdicts produced for one grammar.
func Generate(grammarName string, verdicts []*verdict.Verdict) *Report {
	r := &Report{
		Grammar:  grammarName,
		Total:    len(verdicts),
		Verdicts: verdicts,
	}
	for _, v := range verdicts {
		if v.Accepted {
			r.Accepted++
		} else {
			r.Rejected++
		}
		r.Elapsed += v.Duration
	}
	if r.Total > 0 {
		r.AcceptedPct = utils.RoundDecimal(100*float64(r.Accepted)/float64(r.Total), 1)
	}
	return r
}

// AllAccepted reports whether every input passed.
func (r *Report) AllAccepted() bool {
	return r.Rejected == 0
}
