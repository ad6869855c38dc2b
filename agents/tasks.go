package agents

import (
	"fmt"
	"strings"

	"github.com/bububa/trip-agents/components/systemprompt"
	"github.com/bububa/trip-agents/components/systemprompt/cot"
	"github.com/bububa/trip-agents/components/systemprompt/crispe"
	"github.com/bububa/trip-agents/components/systemprompt/simple"
	"github.com/bububa/trip-agents/schema"
)

// task holds what differs between the agent kinds: their system prompt and how
// they turn an Input into a user prompt.
type task interface {
	systemPrompt() systemprompt.Generator
	prompt(in *Input, cfg *Config) string
}

// tripField selects the request fields an agent gets to see
type tripField uint8

const (
	fieldOrigin tripField = 1 << iota
	fieldDestination
	fieldDates
	fieldBudget
	fieldTravelers
	fieldInterests

	allFields = fieldOrigin | fieldDestination | fieldDates | fieldBudget | fieldTravelers | fieldInterests
)

// tripDetails exposes the selected request fields as prompt context
type tripDetails struct {
	req    schema.TripRequest
	fields tripField
}

var _ systemprompt.ContextProvider = (*tripDetails)(nil)

func (d tripDetails) Title() string {
	return "Trip Details"
}

func (d tripDetails) Info() string {
	lines := make([]string, 0, 6)
	if d.fields&fieldOrigin != 0 {
		lines = append(lines, "- Origin: "+d.req.Origin)
	}
	if d.fields&fieldDestination != 0 {
		lines = append(lines, "- Destination: "+d.req.Destination)
	}
	if d.fields&fieldDates != 0 {
		lines = append(lines, fmt.Sprintf("- Dates: %s to %s (%d nights)",
			d.req.StartDate.Format(schema.DateLayout), d.req.EndDate.Format(schema.DateLayout), d.req.Nights()))
	}
	if d.fields&fieldBudget != 0 {
		lines = append(lines, "- Budget: "+d.req.Budget.String())
	}
	if d.fields&fieldTravelers != 0 {
		lines = append(lines, fmt.Sprintf("- Travelers: %d", d.req.Travelers))
	}
	if d.fields&fieldInterests != 0 {
		lines = append(lines, "- Interests: "+d.req.InterestList())
	}
	return strings.Join(lines, "\n")
}

// upstreamContext exposes an upstream outcome to the summary agent
type upstreamContext struct {
	kind    Kind
	outcome *Outcome
	cfg     *Config
}

var _ systemprompt.ContextProvider = (*upstreamContext)(nil)

func (c upstreamContext) Title() string {
	switch c.kind {
	case KindFlight:
		return "Flight Options"
	case KindHotel:
		return "Hotel Options"
	case KindAttraction:
		return "Attractions"
	}
	return c.kind.Title()
}

func (c upstreamContext) Info() string {
	if c.outcome == nil || !c.outcome.Succeeded() {
		reason := "no result"
		if c.outcome != nil && c.outcome.Failed() {
			reason = c.outcome.Error()
		}
		return fmt.Sprintf("NOT AVAILABLE: the %s failed (%s).", strings.ToLower(c.kind.Title()), reason)
	}
	text := c.outcome.Text()
	if c.cfg != nil && c.cfg.maxContextTokens > 0 && c.cfg.tokenCounter != nil && c.cfg.tokenCounter.Count(text) > c.cfg.maxContextTokens {
		text = c.cfg.tokenCounter.Truncate(text, c.cfg.maxContextTokens) + "\n[truncated]"
	}
	return text
}

func travelers(n int) string {
	if n == 1 {
		return "1 traveler"
	}
	return fmt.Sprintf("%d travelers", n)
}

type flightTask struct{}

func (flightTask) systemPrompt() systemprompt.Generator {
	return cot.New(
		cot.WithBackground(
			"You are Flight Finder, an expert travel agent specialized in finding flights.",
			"You know airlines, alliances, airports and typical fares on international and domestic routes.",
		),
		cot.WithSteps(
			"Identify the airports serving the origin and the destination.",
			"Consider direct and connecting itineraries for the requested dates.",
			"Match cabin class and carriers to the budget level and party size.",
		),
		cot.WithOutputInstructs(
			"Respond in markdown.",
			"List 3 to 5 flight options with airline, route, stops, approximate duration and estimated price per person.",
			"Finish with booking tips for the route.",
		),
	)
}

func (flightTask) prompt(in *Input, _ *Config) string {
	req := in.Request
	content := fmt.Sprintf("Find flight options from %s to %s departing on %s and returning on %s for %s with a %s budget.",
		req.Origin, req.Destination,
		req.StartDate.Format(schema.DateLayout), req.EndDate.Format(schema.DateLayout),
		travelers(req.Travelers), req.Budget)
	return simple.New(content, simple.WithContextProviders(tripDetails{
		req:    req,
		fields: fieldOrigin | fieldDestination | fieldDates | fieldBudget | fieldTravelers,
	})).Generate()
}

type hotelTask struct{}

func (hotelTask) systemPrompt() systemprompt.Generator {
	return cot.New(
		cot.WithBackground(
			"You are Hotel Explorer, an expert travel agent specialized in accommodation.",
			"You know the neighborhoods, hotel chains and independent stays of major destinations.",
		),
		cot.WithSteps(
			"Pick the neighborhoods that suit the trip.",
			"Select stays matching the budget level and the number of travelers.",
		),
		cot.WithOutputInstructs(
			"Respond in markdown.",
			"List 3 to 5 accommodation options with name, neighborhood, notable amenities and estimated price per night.",
			"Explain briefly why each neighborhood is a good base.",
		),
	)
}

func (hotelTask) prompt(in *Input, _ *Config) string {
	req := in.Request
	content := fmt.Sprintf("Find accommodation in %s from %s to %s (%d nights) for %s with a %s budget.",
		req.Destination,
		req.StartDate.Format(schema.DateLayout), req.EndDate.Format(schema.DateLayout), req.Nights(),
		travelers(req.Travelers), req.Budget)
	return simple.New(content, simple.WithContextProviders(tripDetails{
		req:    req,
		fields: fieldDestination | fieldDates | fieldBudget | fieldTravelers,
	})).Generate()
}

type attractionTask struct{}

func (attractionTask) systemPrompt() systemprompt.Generator {
	return cot.New(
		cot.WithBackground(
			"You are Attraction Scout, a local guide who knows the sights, food and hidden gems of every destination.",
		),
		cot.WithSteps(
			"Consider the season of the travel dates.",
			"Favor places matching the traveler interests, include a few well known highlights.",
		),
		cot.WithOutputInstructs(
			"Respond in markdown.",
			"List 5 to 8 attractions or experiences with a short description, the best time to visit and approximate cost.",
		),
	)
}

func (attractionTask) prompt(in *Input, _ *Config) string {
	req := in.Request
	content := fmt.Sprintf("Recommend attractions and experiences in %s for a visit from %s to %s. Interests: %s.",
		req.Destination,
		req.StartDate.Format(schema.DateLayout), req.EndDate.Format(schema.DateLayout),
		req.InterestList())
	return simple.New(content, simple.WithContextProviders(tripDetails{
		req:    req,
		fields: fieldDestination | fieldDates | fieldInterests,
	})).Generate()
}

type summaryTask struct{}

func (summaryTask) systemPrompt() systemprompt.Generator {
	return crispe.New(
		crispe.WithCapacities(
			"You are Trip Summarizer, a senior travel planner who turns research notes into a day by day itinerary.",
		),
		crispe.WithInsights(
			"Other agents researched flights, hotels and attractions for the trip; their findings are given as context.",
		),
		crispe.WithStatements(
			"Combine the findings into one cohesive trip plan with a recommended flight, a recommended stay and a daily itinerary.",
			"Some findings may be marked NOT AVAILABLE. Still produce the best plan you can and state clearly which parts are missing.",
			"Give a rough total budget estimate for the whole party.",
		),
		crispe.WithPersonalities(
			"Respond in markdown.",
			"Be concise and practical.",
		),
	)
}

func (summaryTask) prompt(in *Input, cfg *Config) string {
	req := in.Request
	content := fmt.Sprintf("Create a complete trip plan from %s to %s, %s to %s, for %s with a %s budget.",
		req.Origin, req.Destination,
		req.StartDate.Format(schema.DateLayout), req.EndDate.Format(schema.DateLayout),
		travelers(req.Travelers), req.Budget)
	providers := []systemprompt.ContextProvider{tripDetails{req: req, fields: allFields}}
	var missing []string
	for _, k := range IndependentKinds {
		o := in.Upstream(k)
		if o == nil || !o.Succeeded() {
			missing = append(missing, k.String())
		}
		providers = append(providers, upstreamContext{kind: k, outcome: o, cfg: cfg})
	}
	if len(missing) > 0 {
		content += fmt.Sprintf(" Note: the %s research is missing, mention this gap in the plan.", strings.Join(missing, " and "))
	}
	return simple.New(content, simple.WithContextProviders(providers...)).Generate()
}
