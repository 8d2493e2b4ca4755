package harness

// Step operation names, as recorded in TraceEvent.Op.
const (
	OpRender  = "render"
	OpRotate  = "rotate"
	OpEval    = "eval"
	OpAdvance = "advance"
	OpSet     = "set"
	OpFrame   = "frame"
	OpReset   = "reset"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	ElapsedMS int64  `json:"elapsed_ms"` // manual clock time since scenario start
	Op        string `json:"op"`
	Target    string `json:"target"` // display, rotation, condition, token or animation
	Entity    string `json:"entity,omitempty"`
	Viewer    string `json:"viewer,omitempty"`
	Layer     string `json:"layer,omitempty"`
	Defaulted bool   `json:"defaulted,omitempty"`
	Key       string `json:"key,omitempty"` // chosen rotation candidate
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty if Pass is true.
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

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// add appends ev with the next sequence number.
func (r *Result) add(ev TraceEvent) TraceEvent {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
	return ev
}
