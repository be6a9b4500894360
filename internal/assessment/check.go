package assessment

import (
	"encoding/json"
	"errors"
)

// Check is the outcome of one eligibility dimension: either Pass, or Fail
// with a reason. The zero value is a pass.
type Check struct {
	failed bool
	reason string
}

// Pass returns a passing check.
func Pass() Check { return Check{} }

// Fail returns a failing check with a human-readable reason.
func Fail(reason string) Check { return Check{failed: true, reason: reason} }

// Passed reports whether the dimension passed.
func (c Check) Passed() bool { return !c.failed }

// Failed reports whether the dimension failed.
func (c Check) Failed() bool { return c.failed }

// Reason returns the failure reason. ok is false for a passing check.
func (c Check) Reason() (reason string, ok bool) {
	if !c.failed {
		return "", false
	}
	return c.reason, true
}

type checkJSON struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

func (c Check) MarshalJSON() ([]byte, error) {
	return json.Marshal(checkJSON{Passed: !c.failed, Reason: c.reason})
}

func (c *Check) UnmarshalJSON(data []byte) error {
	var raw checkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Passed {
		if raw.Reason != "" {
			return errors.New("passing check cannot carry a reason")
		}
		*c = Pass()
		return nil
	}
	*c = Fail(raw.Reason)
	return nil
}
