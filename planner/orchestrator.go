// Package planner drives the trip planning agents and assembles their outcomes into a trip plan.
//
// A run validates the request, runs the flight, hotel and attraction agents (concurrently
// by default), waits for all three to resolve and then runs the summary agent with their
// outcomes. Agent failures never fail the run: they are recorded in the Result and left
// out of the Document.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/components/llm/providers"
	"github.com/bububa/trip-agents/schema"
)

// Orchestrator plans trips. It keeps no per-run state and is safe for concurrent use.
type Orchestrator struct {
	runners     [4]agents.Runner
	logger      *slog.Logger
	concurrency int
	policy      SummaryPolicy
	timeout     time.Duration
	runs        atomic.Int64
	calls       atomic.Int64
	closer      io.Closer
	closeOnce   sync.Once
}

// Stats counts the work done by an orchestrator since it was built
type Stats struct {
	Runs       int64 `json:"runs"`
	AgentCalls int64 `json:"agent_calls"`
}

// New builds an orchestrator backed by the provider of the given model family.
// The credential is checked with the provider before returning unless WithSkipVerify is set.
// Every failure is a *ConfigurationError.
func New(ctx context.Context, credential string, provider llm.Provider, opts ...Option) (*Orchestrator, error) {
	o := newOptions(opts...)
	if !provider.Valid() {
		return nil, configurationError(fmt.Sprintf("unknown model family %q", provider), nil)
	}
	if err := providers.CheckCredential(credential); err != nil {
		return nil, configurationError("please enter a valid API key", err)
	}
	clt, err := providers.New(ctx, provider, credential, o.llmOptions()...)
	if err != nil {
		return nil, configurationError(fmt.Sprintf("cannot create the %s client", provider), err)
	}
	if v, ok := clt.(llm.Verifier); ok && !o.skipVerify {
		if err := v.Verify(ctx); err != nil {
			closeClient(clt)
			return nil, configurationError(fmt.Sprintf("%s credential check failed, %s", provider, llm.Describe(err)), err)
		}
	}
	ret, err := newOrchestrator(clt, o)
	if err != nil {
		closeClient(clt)
		return nil, err
	}
	return ret, nil
}

// NewWithClient builds an orchestrator on an existing client. clt may be nil
// when WithAgent replaces every agent. Close closes clt when it is an io.Closer.
func NewWithClient(clt llm.Client, opts ...Option) (*Orchestrator, error) {
	return newOrchestrator(clt, newOptions(opts...))
}

func newOrchestrator(clt llm.Client, o *options) (*Orchestrator, error) {
	if _, err := ParseSummaryPolicy(string(o.policy)); err != nil {
		return nil, configurationError("bad summary policy", err)
	}
	ret := &Orchestrator{
		logger:      o.logger,
		concurrency: o.concurrency,
		policy:      o.policy,
		timeout:     o.timeout,
	}
	if c, ok := clt.(io.Closer); ok {
		ret.closer = c
	}
	for _, kind := range agents.Kinds {
		if r, ok := o.runners[kind]; ok && r != nil {
			ret.runners[kind] = r
			continue
		}
		if clt == nil {
			return nil, configurationError(fmt.Sprintf("no llm client for the %s agent", kind), nil)
		}
		agent, err := agents.New(kind, o.agentOptions(clt)...)
		if err != nil {
			return nil, configurationError("cannot create agent", err)
		}
		agent.SetErrorHook(ret.agentErrorHook)
		ret.runners[kind] = agent
	}
	return ret, nil
}

// agentErrorHook logs the raw cause of a failure, the outcome only carries a human readable message
func (o *Orchestrator) agentErrorHook(ctx context.Context, a *agents.Agent, _ *agents.Input, err error) {
	o.logger.DebugContext(ctx, "agent error", slog.String("agent", a.Name()), slog.Any("error", err))
}

// Close releases the llm client, e.g. the gemini gRPC connection. It is safe to call more than once.
func (o *Orchestrator) Close() error {
	var err error
	o.closeOnce.Do(func() {
		if o.closer != nil {
			err = o.closer.Close()
		}
	})
	return err
}

func closeClient(clt llm.Client) {
	if c, ok := clt.(io.Closer); ok {
		c.Close()
	}
}

// Stats returns the orchestrator counters
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Runs:       o.runs.Load(),
		AgentCalls: o.calls.Load(),
	}
}

// GenerateTripPlan plans the trip described by req.
//
// The request is normalized and validated first, an invalid request fails with a
// *ValidationError before any agent runs. Agent failures are recorded in the Result and
// never returned as errors. The run fails with ErrTimeout when ctx or the WithTimeout
// budget expires before the result is assembled.
func (o *Orchestrator) GenerateTripPlan(ctx context.Context, req schema.TripRequest) (*Result, error) {
	runID := components.NewRunID()
	logger := o.logger.With(slog.String("run_id", runID))
	req = req.Normalize()
	if err := validate(req); err != nil {
		logger.InfoContext(ctx, "trip request rejected", slog.Any("error", err))
		return nil, err
	}
	o.runs.Inc()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	start := time.Now()
	logger.InfoContext(ctx, "trip planning started",
		slog.String("origin", req.Origin),
		slog.String("destination", req.Destination),
		slog.String("start_date", req.StartDate.Format(schema.DateLayout)),
		slog.String("end_date", req.EndDate.Format(schema.DateLayout)),
		slog.Int("travelers", req.Travelers),
	)

	var outcomes [4]agents.Outcome
	err := wait(ctx, func() {
		g := new(errgroup.Group)
		g.SetLimit(o.concurrency)
		for _, kind := range agents.IndependentKinds {
			g.Go(func() error {
				outcomes[kind] = o.run(ctx, logger, kind, agents.NewInput(req.Clone()))
				return nil
			})
		}
		g.Wait()
	})
	if err != nil {
		return nil, o.abort(ctx, logger, err)
	}

	var failed []string
	for _, kind := range agents.IndependentKinds {
		if !outcomes[kind].Succeeded() {
			failed = append(failed, kind.String())
		}
	}
	if o.policy.allows(len(failed), len(agents.IndependentKinds)) {
		in := agents.NewSummaryInput(req.Clone(), outcomes[agents.KindFlight], outcomes[agents.KindHotel], outcomes[agents.KindAttraction])
		if err := wait(ctx, func() {
			outcomes[agents.KindSummary] = o.run(ctx, logger, agents.KindSummary, in)
		}); err != nil {
			return nil, o.abort(ctx, logger, err)
		}
	} else {
		msg := fmt.Sprintf("summary skipped because the %s agent failed", strings.Join(failed, ", "))
		logger.WarnContext(ctx, "summary skipped", slog.String("policy", string(o.policy)), slog.Any("failed", failed))
		outcomes[agents.KindSummary] = agents.Failure(agents.KindSummary, msg)
	}

	ret := newResult(runID, req, outcomes)
	usage := ret.Usage()
	logger.InfoContext(ctx, "trip planning finished",
		slog.Int("succeeded", ret.Succeeded()),
		slog.Int("failed", len(ret.Failures())),
		slog.Int("document_bytes", len(ret.Document)),
		slog.Int64("tokens", usage.Total()),
		slog.Duration("duration", time.Since(start)),
	)
	return ret, nil
}

// run runs the agent of kind, the outcome is always resolved
func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, kind agents.Kind, in *agents.Input) (out agents.Outcome) {
	o.calls.Inc()
	defer func() {
		if r := recover(); r != nil {
			out = agents.Failure(kind, fmt.Sprintf("agent panicked: %v", r))
		}
		if !out.Resolved() {
			out = agents.Failure(kind, "the agent returned no result")
		}
		attrs := []any{
			slog.String("agent", kind.String()),
			slog.Bool("ok", out.Succeeded()),
			slog.Duration("duration", out.Duration()),
		}
		if u := out.Usage(); u != nil {
			attrs = append(attrs, slog.Int64("tokens", u.Total()))
		}
		if out.Failed() {
			logger.WarnContext(ctx, "agent failed", append(attrs, slog.String("error", out.Error()))...)
			return
		}
		logger.InfoContext(ctx, "agent finished", attrs...)
	}()
	return o.runners[kind].Run(ctx, in)
}

func (o *Orchestrator) abort(ctx context.Context, logger *slog.Logger, err error) error {
	logger.WarnContext(ctx, "trip planning aborted", slog.Any("error", err))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("trip planning canceled: %w", err)
}

// wait runs fn and waits for it or for ctx, whichever ends first.
// Work that completed is never reported as aborted.
func wait(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}
	select {
	case <-done:
		return nil
	default:
		return ctx.Err()
	}
}

func validate(req schema.TripRequest) error {
	err := req.Validate()
	if err == nil {
		return nil
	}
	var fields schema.ValidationErrors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
