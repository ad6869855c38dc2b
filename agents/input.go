package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/bububa/trip-agents/schema"
)

// ErrInvalidInput the agent input breaks the agent preconditions
var ErrInvalidInput = errors.New("invalid input")

// Input is the context an agent runs with. Independent agents only read Request,
// the summary agent additionally reads the three upstream outcomes.
type Input struct {
	Request    schema.TripRequest
	Flight     *Outcome
	Hotel      *Outcome
	Attraction *Outcome
}

// NewInput returns the input of an independent agent
func NewInput(req schema.TripRequest) *Input {
	return &Input{Request: req}
}

// NewSummaryInput returns the input of the summary agent
func NewSummaryInput(req schema.TripRequest, flight, hotel, attraction Outcome) *Input {
	return &Input{
		Request:    req,
		Flight:     &flight,
		Hotel:      &hotel,
		Attraction: &attraction,
	}
}

// Upstream returns the upstream outcome of kind, nil when absent
func (in *Input) Upstream(kind Kind) *Outcome {
	switch kind {
	case KindFlight:
		return in.Flight
	case KindHotel:
		return in.Hotel
	case KindAttraction:
		return in.Attraction
	}
	return nil
}

// check enforces the preconditions of kind
func (in *Input) check(kind Kind) error {
	if in == nil {
		return fmt.Errorf("%w: missing input", ErrInvalidInput)
	}
	if err := in.Request.Consistent(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if kind != KindSummary {
		return nil
	}
	for _, k := range IndependentKinds {
		if o := in.Upstream(k); o == nil || !o.Resolved() {
			return fmt.Errorf("%w: summary requires the resolved %s outcome", ErrInvalidInput, k)
		}
	}
	return nil
}

// Runner is the capability shared by every planning agent
type Runner interface {
	Kind() Kind
	// Run never returns an error: every failure is captured in the Outcome
	Run(ctx context.Context, in *Input) Outcome
}
