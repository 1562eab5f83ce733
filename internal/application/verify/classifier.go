package verify

import (
	"regexp"
	"strings"
)

// Kind selects which structural rules apply to an item.
type Kind string

const (
	KindEmail Kind = "email"
	KindPhone Kind = "phone"
)

// Result is the classification outcome for a single item.
type Result struct {
	Status string
	Reason string
}

// Classification statuses. These match the persisted per-item statuses.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
	StatusRisky   = "risky"
	StatusUnknown = "unknown"
)

const (
	ReasonInvalidFormat = "Invalid format"
	ReasonValid         = "Valid and deliverable"
)

var (
	// Shape: local-part @ domain . tld, no whitespace, no second "@".
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// E.164: optional "+", up to 15 digits, no leading zero.
	phoneRe = regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`)
)

// Check is one reputation heuristic applied to a structurally valid email.
// Inspect returns the result and true when the check fires; false means the
// address passed and the next check in the chain runs. A returned error
// means the check itself failed (e.g. an upstream signal provider is down),
// not that the address is bad.
type Check interface {
	Name() string
	Inspect(localPart, domain string) (Result, bool, error)
}

// Classifier classifies addresses and phone numbers. It is a pure function
// of its input and the injected check chain; checks run in slice order and
// the first one to fire wins.
type Classifier struct {
	checks []Check
}

// NewClassifier builds a classifier with the given reputation checks.
// With no checks it falls back to DefaultChecks.
func NewClassifier(checks ...Check) *Classifier {
	if len(checks) == 0 {
		checks = DefaultChecks()
	}
	return &Classifier{checks: checks}
}

// Classify classifies one item. Structural failures short-circuit the
// reputation chain. Phone numbers get structural validation only.
func (c *Classifier) Classify(item string, kind Kind) (Result, error) {
	switch kind {
	case KindPhone:
		if !phoneRe.MatchString(item) {
			return Result{Status: StatusInvalid, Reason: ReasonInvalidFormat}, nil
		}
		return Result{Status: StatusValid, Reason: ReasonValid}, nil
	default:
		if !emailRe.MatchString(item) {
			return Result{Status: StatusInvalid, Reason: ReasonInvalidFormat}, nil
		}
		at := strings.LastIndex(item, "@")
		local := item[:at]
		domain := strings.ToLower(item[at+1:])
		for _, chk := range c.checks {
			res, hit, err := chk.Inspect(local, domain)
			if err != nil {
				return Result{}, err
			}
			if hit {
				return res, nil
			}
		}
		return Result{Status: StatusValid, Reason: ReasonValid}, nil
	}
}
