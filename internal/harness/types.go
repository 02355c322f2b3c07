package harness

import (
	"github.com/roach88/rtikit/internal/federation"
	"github.com/roach88/rtikit/internal/logicaltime"
)

// Error kinds a step may expect, keyed by their scenario spelling.
var errorKinds = map[string]error{
	"invalid_logical_time":          logicaltime.ErrInvalidLogicalTime,
	"invalid_logical_time_interval": logicaltime.ErrInvalidLogicalTimeInterval,
	"illegal_time_arithmetic":       logicaltime.ErrIllegalTimeArithmetic,
	"could_not_encode":              logicaltime.ErrCouldNotEncode,
	"could_not_decode":              logicaltime.ErrCouldNotDecode,
	"federate_already_joined":       federation.ErrFederateAlreadyJoined,
}

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Var    string `json:"var"`
	Other  string `json:"other,omitempty"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains one message per failed expectation.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed step.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
