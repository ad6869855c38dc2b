package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/components"
	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/schema"
)

// callLog records agent starts and ends in the order they happen
type callLog struct {
	mu     sync.Mutex
	events []string
}

func (l *callLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *callLog) index(event string) int {
	for i, v := range l.snapshot() {
		if v == event {
			return i
		}
	}
	return -1
}

type stubRunner struct {
	kind  agents.Kind
	text  string
	err   string
	delay time.Duration
	log   *callLog
	calls atomic.Int32
	input *agents.Input
	mu    sync.Mutex
}

func (s *stubRunner) Kind() agents.Kind {
	return s.kind
}

func (s *stubRunner) Run(ctx context.Context, in *agents.Input) agents.Outcome {
	s.calls.Inc()
	s.mu.Lock()
	s.input = in
	s.mu.Unlock()
	if s.log != nil {
		s.log.add("start:" + s.kind.String())
		defer s.log.add("end:" + s.kind.String())
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return agents.Failure(s.kind, llm.Describe(ctx.Err()))
		}
	}
	if s.err != "" {
		return agents.Failure(s.kind, s.err)
	}
	return agents.Success(s.kind, s.text)
}

func (s *stubRunner) lastInput() *agents.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

type stubSet struct {
	log        *callLog
	flight     *stubRunner
	hotel      *stubRunner
	attraction *stubRunner
	summary    *stubRunner
}

func newStubs() *stubSet {
	l := new(callLog)
	return &stubSet{
		log:        l,
		flight:     &stubRunner{kind: agents.KindFlight, text: "Flight options text", log: l},
		hotel:      &stubRunner{kind: agents.KindHotel, text: "Hotel options text", log: l},
		attraction: &stubRunner{kind: agents.KindAttraction, text: "Attraction list text", log: l},
		summary:    &stubRunner{kind: agents.KindSummary, text: "Summary text", log: l},
	}
}

func (s *stubSet) options() []Option {
	return []Option{
		WithAgent(s.flight),
		WithAgent(s.hotel),
		WithAgent(s.attraction),
		WithAgent(s.summary),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
}

func (s *stubSet) totalCalls() int32 {
	return s.flight.calls.Load() + s.hotel.calls.Load() + s.attraction.calls.Load() + s.summary.calls.Load()
}

func newStubOrchestrator(t *testing.T, s *stubSet, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewWithClient(nil, append(s.options(), opts...)...)
	require.NoError(t, err)
	return o
}

func tokyoRequest() schema.TripRequest {
	return schema.TripRequest{
		Origin:      "New York",
		Destination: "Tokyo",
		StartDate:   schema.Date(2025, time.June, 1),
		EndDate:     schema.Date(2025, time.June, 8),
		Budget:      schema.BudgetTierModerate,
		Travelers:   2,
		Interests:   []string{"Food & Cuisine"},
	}
}

func sectionIndex(doc Document, kind agents.Kind) int {
	return strings.Index(string(doc), "## "+sectionTitle(kind))
}

func TestTokyoAllSucceed(t *testing.T) {
	s := newStubs()
	res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	assert.Empty(t, res.Failures())
	assert.Equal(t, 4, res.Succeeded())
	assert.NotEmpty(t, res.RunID)

	doc := res.Document
	prev := -1
	for _, kind := range agents.Kinds {
		idx := sectionIndex(doc, kind)
		require.GreaterOrEqual(t, idx, 0, "missing %s section", kind)
		assert.Greater(t, idx, prev, "%s section out of order", kind)
		prev = idx
	}
	for _, text := range []string{"Flight options text", "Hotel options text", "Attraction list text", "Summary text"} {
		assert.Contains(t, doc.String(), text)
	}
	assert.Equal(t, "trip_plan_Tokyo_2025-06-01.md", res.Filename())
}

func TestTokyoHotelNetworkError(t *testing.T) {
	s := newStubs()
	s.hotel.err = llm.Describe(llm.NewError(llm.ProviderOpenAI, llm.ErrUnavailable, errors.New("connection reset by peer")))
	res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)

	require.True(t, res.Hotel.Failed())
	assert.Equal(t, "the AI service is currently unavailable", res.Hotel.Error())
	assert.True(t, res.Flight.Succeeded())
	assert.True(t, res.Attraction.Succeeded())
	assert.True(t, res.Summary.Succeeded())

	doc := res.Document
	assert.False(t, doc.HasSection(agents.KindHotel))
	assert.NotContains(t, doc.String(), "Hotel options text")
	assert.Less(t, sectionIndex(doc, agents.KindFlight), sectionIndex(doc, agents.KindAttraction))
	assert.Less(t, sectionIndex(doc, agents.KindAttraction), sectionIndex(doc, agents.KindSummary))

	// the summary still ran and saw the failure
	in := s.summary.lastInput()
	require.NotNil(t, in)
	require.NotNil(t, in.Hotel)
	assert.True(t, in.Hotel.Failed())
}

func TestAllAgentsFail(t *testing.T) {
	s := newStubs()
	for _, r := range []*stubRunner{s.flight, s.hotel, s.attraction, s.summary} {
		r.err = "authentication failed, check the API key"
	}
	res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	assert.Len(t, res.Failures(), 4)
	assert.True(t, res.Document.Empty())
	assert.Equal(t, "", res.Document.HTML())
}

func TestOneIndependentAgentFails(t *testing.T) {
	for _, failing := range agents.IndependentKinds {
		t.Run(failing.String(), func(t *testing.T) {
			s := newStubs()
			runners := map[agents.Kind]*stubRunner{
				agents.KindFlight:     s.flight,
				agents.KindHotel:      s.hotel,
				agents.KindAttraction: s.attraction,
			}
			runners[failing].err = "request failed: boom"
			res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
			require.NoError(t, err)
			require.Len(t, res.Failures(), 1)
			assert.Equal(t, failing, res.Failures()[0].Kind())

			prev := -1
			for _, kind := range agents.Kinds {
				idx := sectionIndex(res.Document, kind)
				if kind == failing {
					assert.Equal(t, -1, idx)
					continue
				}
				assert.Greater(t, idx, prev)
				prev = idx
			}
		})
	}
}

func TestValidationRejectsBeforeAnyAgentCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *schema.TripRequest)
		field  string
	}{
		{"end equals start", func(r *schema.TripRequest) { r.EndDate = r.StartDate }, "end_date"},
		{"end before start", func(r *schema.TripRequest) { r.EndDate = r.StartDate.AddDate(0, 0, -1) }, "end_date"},
		{"no travelers", func(r *schema.TripRequest) { r.Travelers = 0 }, "travelers"},
		{"negative travelers", func(r *schema.TripRequest) { r.Travelers = -3 }, "travelers"},
		{"too many travelers", func(r *schema.TripRequest) { r.Travelers = 11 }, "travelers"},
		{"unknown budget", func(r *schema.TripRequest) { r.Budget = "Backpacker" }, "budget"},
		{"missing destination", func(r *schema.TripRequest) { r.Destination = "  " }, "destination"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStubs()
			req := tokyoRequest()
			tt.mutate(&req)
			o := newStubOrchestrator(t, s)
			res, err := o.GenerateTripPlan(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Fields.Has(tt.field), "expect %s in %v", tt.field, verr.Fields)
			assert.Equal(t, int32(0), s.totalCalls())
			assert.Equal(t, int64(0), o.Stats().AgentCalls)
		})
	}
}

func TestTravelerBoundsAccepted(t *testing.T) {
	for _, n := range []int{1, schema.MaxTravelers} {
		s := newStubs()
		req := tokyoRequest()
		req.Travelers = n
		_, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), req)
		assert.NoError(t, err, "travelers %d", n)
	}
}

func TestSummaryRunsAfterBarrier(t *testing.T) {
	s := newStubs()
	s.flight.delay = 30 * time.Millisecond
	s.hotel.delay = 10 * time.Millisecond
	s.attraction.delay = 20 * time.Millisecond
	_, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)

	summaryStart := s.log.index("start:summary")
	require.GreaterOrEqual(t, summaryStart, 0)
	for _, kind := range agents.IndependentKinds {
		end := s.log.index("end:" + kind.String())
		require.GreaterOrEqual(t, end, 0)
		assert.Less(t, end, summaryStart, "%s resolved after the summary started", kind)
	}
	in := s.summary.lastInput()
	require.NotNil(t, in)
	for _, kind := range agents.IndependentKinds {
		require.NotNil(t, in.Upstream(kind))
		assert.True(t, in.Upstream(kind).Resolved())
	}
}

func TestIndependentAgentsRunConcurrently(t *testing.T) {
	s := newStubs()
	for _, r := range []*stubRunner{s.flight, s.hotel, s.attraction} {
		r.delay = 100 * time.Millisecond
	}
	start := time.Now()
	_, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestSequentialOrder(t *testing.T) {
	s := newStubs()
	s.flight.delay = 10 * time.Millisecond
	_, err := newStubOrchestrator(t, s, WithConcurrency(1)).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start:flight", "end:flight",
		"start:hotel", "end:hotel",
		"start:attraction", "end:attraction",
		"start:summary", "end:summary",
	}, s.log.snapshot())
}

func TestDeterministicDocument(t *testing.T) {
	var docs []Document
	for i := 0; i < 5; i++ {
		s := newStubs()
		s.attraction.err = "the request timed out"
		s.hotel.delay = time.Duration(5-i) * time.Millisecond
		res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), tokyoRequest())
		require.NoError(t, err)
		docs = append(docs, res.Document)
	}
	for _, d := range docs[1:] {
		assert.Equal(t, docs[0], d)
		assert.Equal(t, docs[0].ID(), d.ID())
	}
}

func TestSummaryPolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      SummaryPolicy
		failing     []agents.Kind
		summaryRuns bool
	}{
		{"always with all failed", SummaryAlways, agents.IndependentKinds, true},
		{"require any with one failed", SummaryRequireAny, []agents.Kind{agents.KindHotel}, true},
		{"require any with all failed", SummaryRequireAny, agents.IndependentKinds, false},
		{"require all with none failed", SummaryRequireAll, nil, true},
		{"require all with one failed", SummaryRequireAll, []agents.Kind{agents.KindFlight}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStubs()
			runners := map[agents.Kind]*stubRunner{
				agents.KindFlight:     s.flight,
				agents.KindHotel:      s.hotel,
				agents.KindAttraction: s.attraction,
			}
			for _, k := range tt.failing {
				runners[k].err = "request failed: boom"
			}
			res, err := newStubOrchestrator(t, s, WithSummaryPolicy(tt.policy)).GenerateTripPlan(context.Background(), tokyoRequest())
			require.NoError(t, err)
			if tt.summaryRuns {
				assert.Equal(t, int32(1), s.summary.calls.Load())
				assert.True(t, res.Summary.Succeeded())
				return
			}
			assert.Equal(t, int32(0), s.summary.calls.Load())
			require.True(t, res.Summary.Failed())
			for _, k := range tt.failing {
				assert.Contains(t, res.Summary.Error(), k.String())
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	s := newStubs()
	s.hotel.delay = time.Second
	start := time.Now()
	res, err := newStubOrchestrator(t, s, WithTimeout(30*time.Millisecond)).GenerateTripPlan(context.Background(), tokyoRequest())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(0), s.summary.calls.Load())
}

// blockingRunner ignores its context until released
type blockingRunner struct {
	kind    agents.Kind
	release chan struct{}
}

func (b *blockingRunner) Kind() agents.Kind {
	return b.kind
}

func (b *blockingRunner) Run(context.Context, *agents.Input) agents.Outcome {
	<-b.release
	return agents.Success(b.kind, "late")
}

func TestCallerDeadlineWithStuckAgent(t *testing.T) {
	s := newStubs()
	stuck := &blockingRunner{kind: agents.KindAttraction, release: make(chan struct{})}
	defer close(stuck.release)
	o := newStubOrchestrator(t, s, WithAgent(stuck))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := o.GenerateTripPlan(ctx, tokyoRequest())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCallerCancel(t *testing.T) {
	s := newStubs()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newStubOrchestrator(t, s).GenerateTripPlan(ctx, tokyoRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

type panicRunner struct {
	kind agents.Kind
}

func (p panicRunner) Kind() agents.Kind {
	return p.kind
}

func (p panicRunner) Run(context.Context, *agents.Input) agents.Outcome {
	panic("stub exploded")
}

func TestRunnerPanicBecomesFailure(t *testing.T) {
	s := newStubs()
	res, err := newStubOrchestrator(t, s, WithAgent(panicRunner{kind: agents.KindFlight})).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	require.True(t, res.Flight.Failed())
	assert.Contains(t, res.Flight.Error(), "stub exploded")
	assert.True(t, res.Summary.Succeeded())
}

func TestRequestIsNormalized(t *testing.T) {
	s := newStubs()
	req := tokyoRequest()
	req.Destination = "  Tokyo "
	req.Budget = "moderate"
	req.Interests = []string{"Food & Cuisine", "food & cuisine", "Temples"}
	res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", res.Request.Destination)
	assert.Equal(t, schema.BudgetTierModerate, res.Request.Budget)
	assert.Equal(t, []string{"Food & Cuisine", "Temples"}, res.Request.Interests)
	// the caller's request is left alone
	assert.Equal(t, "  Tokyo ", req.Destination)
}

func TestBlankInterestPlansNormally(t *testing.T) {
	s := newStubs()
	req := tokyoRequest()
	req.Interests = []string{"Food & Cuisine", "  "}
	res, err := newStubOrchestrator(t, s).GenerateTripPlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Succeeded())
	assert.Equal(t, int32(4), s.totalCalls())
	assert.Equal(t, []string{"Food & Cuisine"}, s.attraction.lastInput().Request.Interests)
}

// expiredContext reports an expired deadline without ever signaling Done
type expiredContext struct {
	context.Context
}

func (expiredContext) Err() error {
	return context.DeadlineExceeded
}

func TestWaitKeepsFinishedWork(t *testing.T) {
	var ran atomic.Bool
	err := wait(expiredContext{context.Background()}, func() { ran.Store(true) })
	require.NoError(t, err)
	assert.True(t, ran.Load())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	release := make(chan struct{})
	defer close(release)
	assert.ErrorIs(t, wait(ctx, func() { <-release }), context.DeadlineExceeded)
}

type closingClient struct {
	countingClient
	closed atomic.Int32
}

func (c *closingClient) Close() error {
	c.closed.Inc()
	return nil
}

func TestCloseReleasesClient(t *testing.T) {
	clt := new(closingClient)
	o, err := NewWithClient(clt, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	require.NoError(t, o.Close())
	require.NoError(t, o.Close())
	assert.Equal(t, int32(1), clt.closed.Load())

	s := newStubs()
	require.NoError(t, newStubOrchestrator(t, s).Close())
}

func TestUsageAndStats(t *testing.T) {
	clt := &countingClient{}
	o, err := NewWithClient(clt, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	res, err := o.GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Succeeded())
	assert.Equal(t, components.LLMUsage{InputTokens: 40, OutputTokens: 80}, res.Usage())
	assert.Equal(t, int32(4), clt.calls.Load())
	assert.Equal(t, Stats{Runs: 1, AgentCalls: 4}, o.Stats())
}

type countingClient struct {
	calls atomic.Int32
}

func (c *countingClient) Provider() llm.Provider {
	return llm.ProviderOpenAI
}

func (c *countingClient) Generate(_ context.Context, req *llm.Request, resp *components.LLMResponse) error {
	n := c.calls.Inc()
	resp.Content = fmt.Sprintf("answer %d", n)
	resp.Usage = &components.LLMUsage{InputTokens: 10, OutputTokens: 20}
	return nil
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := newStubs()
	s.hotel.err = "rate limit or quota exceeded, try again later"
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res, err := newStubOrchestrator(t, s, WithLogger(logger)).GenerateTripPlan(context.Background(), tokyoRequest())
	require.NoError(t, err)

	var warned bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, res.RunID, entry["run_id"])
		if entry["msg"] == "agent failed" {
			warned = true
			assert.Equal(t, "WARN", entry["level"])
			assert.Equal(t, "hotel", entry["agent"])
		}
	}
	assert.True(t, warned)
}

func TestConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, "", llm.ProviderOpenAI)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(ctx, "   ", llm.ProviderAnthropic)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = New(ctx, "sk-test", llm.Provider("mistral"))
	assert.ErrorIs(t, err, ErrConfiguration)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Reason, "mistral")

	_, err = NewWithClient(nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewWithClient(&countingClient{}, WithSummaryPolicy("sometimes"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCredentialHandshake(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "Incorrect API key provided", "type": "invalid_request_error"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{map[string]any{"id": "gpt-4o"}}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	_, err := New(ctx, "bad-key", llm.ProviderOpenAI, WithBaseURL(srv.URL))
	require.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, llm.ErrAuthentication)
	assert.Contains(t, err.Error(), "authentication failed")

	o, err := New(ctx, "good-key", llm.ProviderOpenAI, WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.NotNil(t, o)

	o, err = New(ctx, "bad-key", llm.ProviderOpenAI, WithBaseURL(srv.URL), WithSkipVerify())
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestParseSummaryPolicy(t *testing.T) {
	for in, expect := range map[string]SummaryPolicy{
		"":            SummaryAlways,
		"always":      SummaryAlways,
		"Require_Any": SummaryRequireAny,
		"require_all": SummaryRequireAll,
	} {
		got, err := ParseSummaryPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, expect, got)
	}
	_, err := ParseSummaryPolicy("never")
	assert.Error(t, err)
}
