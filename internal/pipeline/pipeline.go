// Package pipeline cleans the three recipient lists of an outgoing
// message by applying a caller-ordered sequence of transformation
// steps. Every step is a pure function over in-memory lists: the same
// request always produces byte-identical output, and each executed step
// leaves an ActionRecord describing exactly what it saw and changed.
package pipeline

import (
	"fmt"

	"github.com/nhle/mailgroom/internal/domains"
	"github.com/nhle/mailgroom/internal/recipient"
	"github.com/nhle/mailgroom/internal/typo"
)

// Field identifies one of the three recipient destination roles.
type Field string

const (
	FieldTo  Field = "to"
	FieldCc  Field = "cc"
	FieldBcc Field = "bcc"
)

// Recognized step names. Unknown names in a request are skipped so old
// configurations keep working when steps are renamed or removed.
const (
	StepSort           = "sort"
	StepDedupe         = "dedupe"
	StepValidate       = "validate"
	StepPrioritize     = "prioritizeInternal"
	StepRemoveExternal = "removeExternal"
	StepFlagExternal   = "flagExt"
)

// StepNames lists every recognized step in its conventional default
// order, for display and config validation.
func StepNames() []string {
	return []string{
		StepDedupe,
		StepValidate,
		StepSort,
		StepPrioritize,
		StepRemoveExternal,
		StepFlagExternal,
	}
}

// Request is the full input of one pipeline run: the raw recipient
// strings per field plus the configuration the enabled steps consult.
type Request struct {
	To  []string `json:"to"`
	Cc  []string `json:"cc"`
	Bcc []string `json:"bcc"`

	// EnabledSteps is the ordered subset of step names to execute.
	EnabledSteps []string `json:"enabledSteps"`

	// InternalDomains is the priority-ordered internal domain list;
	// blanks, placeholders, and duplicates are filtered before use.
	InternalDomains []string `json:"internalDomains"`

	// OrgDomain is the single organization domain used only by the
	// flagExt reporting step. Optional.
	OrgDomain string `json:"orgDomain"`

	// Alphabetical additionally orders same-priority groups in the
	// prioritizeInternal step by display name / address.
	Alphabetical bool `json:"alphabetical,omitempty"`

	// Typo overrides the typo-detection thresholds used by validate.
	// Zero value means defaults.
	Typo typo.Options `json:"-"`
}

// Summary holds the aggregate counts of a completed run.
type Summary struct {
	TotalProcessed int `json:"totalProcessed"`
	TotalRemaining int `json:"totalRemaining"`
	StepsExecuted  int `json:"stepsExecuted"`
}

// Result is the output of a pipeline run: the final lists, the ordered
// audit trail of every executed step, and the aggregate summary.
type Result struct {
	To      []string       `json:"to"`
	Cc      []string       `json:"cc"`
	Bcc     []string       `json:"bcc"`
	Actions []ActionRecord `json:"actions"`
	Summary Summary        `json:"summary"`
}

// StepError wraps a failure inside a step function with the step's
// name, so a fatal run error is always attributable to exactly one
// step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// config is the per-run configuration threaded into every step.
type config struct {
	internalDomains []string
	orgDomain       string
	alphabetical    bool
	typo            typo.Options
}

// stepFunc transforms the lists and reports what it did. Steps never
// swallow unexpected faults; they return them so the orchestrator can
// attribute the failure.
type stepFunc func(lists, config) (lists, ActionRecord, error)

// stepRegistry maps step names to their implementations.
var stepRegistry = map[string]stepFunc{
	StepSort:           stepSort,
	StepDedupe:         stepDedupe,
	StepValidate:       stepValidate,
	StepPrioritize:     stepPrioritize,
	StepRemoveExternal: stepRemoveExternal,
	StepFlagExternal:   stepFlagExternal,
}

// Run executes the enabled steps in the requested order against the
// request's lists and returns the final lists plus the complete action
// trail. The request is never mutated. Unknown step names are skipped;
// a failure inside a step aborts the run with a *StepError.
func Run(req Request) (*Result, error) {
	current := parseLists(req)

	cfg := config{
		internalDomains: domains.CleanList(req.InternalDomains),
		orgDomain:       req.OrgDomain,
		alphabetical:    req.Alphabetical,
		typo:            req.Typo,
	}
	if cfg.typo == (typo.Options{}) {
		cfg.typo = typo.DefaultOptions()
	}

	totalProcessed := current.total()

	var actions []ActionRecord
	for _, name := range req.EnabledSteps {
		fn, ok := stepRegistry[name]
		if !ok {
			continue
		}

		next, record, err := fn(current, cfg)
		if err != nil {
			return nil, &StepError{Step: name, Err: err}
		}

		current = next
		actions = append(actions, record)
	}

	final := current.snapshot()
	return &Result{
		To:      final.To,
		Cc:      final.Cc,
		Bcc:     final.Bcc,
		Actions: actions,
		Summary: Summary{
			TotalProcessed: totalProcessed,
			TotalRemaining: current.total(),
			StepsExecuted:  len(actions),
		},
	}, nil
}

// parseLists builds the pipeline's working lists from the request's raw
// strings. Parsing copies everything, so steps can rebuild lists freely
// without touching the caller's slices.
func parseLists(req Request) lists {
	return lists{
		To:  recipient.ParseAll(req.To),
		Cc:  recipient.ParseAll(req.Cc),
		Bcc: recipient.ParseAll(req.Bcc),
	}
}
