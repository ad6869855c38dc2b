package planner

import (
	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/schema"
)

// Result is the read-only snapshot of one planning run
type Result struct {
	// RunID identifies the run in logs
	RunID      string             `json:"run_id"`
	Request    schema.TripRequest `json:"request"`
	Flight     agents.Outcome     `json:"flight"`
	Hotel      agents.Outcome     `json:"hotel"`
	Attraction agents.Outcome     `json:"attraction"`
	Summary    agents.Outcome     `json:"summary"`
	// Document holds the successful sections only
	Document Document `json:"document"`
}

func newResult(runID string, req schema.TripRequest, outcomes [4]agents.Outcome) *Result {
	ret := &Result{
		RunID:      runID,
		Request:    req,
		Flight:     outcomes[agents.KindFlight],
		Hotel:      outcomes[agents.KindHotel],
		Attraction: outcomes[agents.KindAttraction],
		Summary:    outcomes[agents.KindSummary],
	}
	ret.Document = AssembleDocument(req, outcomes[:]...)
	return ret
}

// Outcomes returns the four outcomes in document order
func (r *Result) Outcomes() []agents.Outcome {
	return []agents.Outcome{r.Flight, r.Hotel, r.Attraction, r.Summary}
}

// Outcome returns the outcome of kind
func (r *Result) Outcome(kind agents.Kind) agents.Outcome {
	switch kind {
	case agents.KindFlight:
		return r.Flight
	case agents.KindHotel:
		return r.Hotel
	case agents.KindAttraction:
		return r.Attraction
	}
	return r.Summary
}

// Failures returns the failed outcomes in document order
func (r *Result) Failures() []agents.Outcome {
	var ret []agents.Outcome
	for _, o := range r.Outcomes() {
		if o.Failed() {
			ret = append(ret, o)
		}
	}
	return ret
}

// Succeeded counts the successful outcomes
func (r *Result) Succeeded() int {
	var n int
	for _, o := range r.Outcomes() {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Usage sums the token usage of every agent call
func (r *Result) Usage() components.LLMUsage {
	var ret components.LLMUsage
	for _, o := range r.Outcomes() {
		ret.Merge(o.Usage())
	}
	return ret
}

// Filename returns the download file name of the document
func (r *Result) Filename() string {
	return Filename(r.Request)
}
