package delivery

import (
	"encoding/json"
	"fmt"
)

/* Outcome is the result of a single delivery attempt
 * Every attempt is recorded, including ones followed by a retry
 */
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate checks if the outcome is valid
func (o Outcome) Validate() error {
	if o != Succeeded && o != Failed {
		return fmt.Errorf("invalid delivery outcome: %d", o)
	}
	return nil
}

// MarshalJSON encodes the outcome as its string form
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON parses the string form of the outcome
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshaling delivery outcome: %w", err)
	}
	switch s {
	case "success":
		*o = Succeeded
	case "failed":
		*o = Failed
	default:
		return fmt.Errorf("invalid delivery outcome: %q", s)
	}
	return nil
}
