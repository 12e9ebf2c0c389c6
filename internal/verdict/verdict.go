package verdict

import (
	"errors"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/google/uuid"
)

const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Verdict is the outcome of validating one input against one grammar.
type Verdict struct {
	ID        uuid.UUID     `json:"id" example:"3b241101-e2bb-4255-8caf-4136c566a962"`
	Grammar   string        `json:"grammar" example:"a_plus_b"`
	Source    string        `json:"source,omitempty" example:"tests/1.in"`
	Accepted  bool          `json:"accepted" example:"false"`
	Offset    int           `json:"offset,omitempty" example:"3"`
	Rule      string        `json:"rule,omitempty" example:"eoln"`
	Reason    string        `json:"reason,omitempty" example:"expected newline '\\n', got end of input"`
	Size      int           `json:"size" example:"3"`
	CheckedAt time.Time     `json:"checkedAt"`
	Duration  time.Duration `json:"durationNs" swaggertype:"integer"`
}

// New builds a verdict from the result of a grammar run.
// A nil err means accepted; a format violation fills in the diagnostic fields.
func New(grammarName, source string, size int, err error) *Verdict {
	v := &Verdict{
		ID:        uuid.New(),
		Grammar:   grammarName,
		Source:    source,
		Accepted:  true,
		Size:      size,
		CheckedAt: time.Now().UTC(),
	}
	if err == nil {
		return v
	}

	v.Accepted = false
	var fv *apperr.FormatViolation
	if errors.As(err, &fv) {
		v.Offset = fv.Offset
		v.Rule = fv.Rule
		v.Reason = fv.Reason
	} else {
		v.Reason = err.Error()
	}
	return v
}

// Status is the metric label for the verdict.
func (v *Verdict) Status() string {
	if v.Accepted {
		return StatusAccepted
	}
	return StatusRejected
}

// Err returns the rejection as an *apperr.FormatViolation, or nil when accepted.
func (v *Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return apperr.NewFormatViolation(v.Offset, v.Rule, v.Reason)
}
