package planner

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/schema"
)

func ExampleAssembleDocument() {
	req := schema.TripRequest{
		Origin:      "New York",
		Destination: "Tokyo",
		StartDate:   schema.Date(2025, time.June, 1),
		EndDate:     schema.Date(2025, time.June, 8),
		Budget:      schema.BudgetTierModerate,
		Travelers:   2,
		Interests:   []string{"Food & Cuisine"},
	}
	doc := AssembleDocument(req,
		agents.Success(agents.KindSummary, "Seven days of ramen and temples."),
		agents.Success(agents.KindFlight, "JAL 005, nonstop."),
		agents.Failure(agents.KindHotel, "the request timed out"),
		agents.Success(agents.KindAttraction, "Tsukiji outer market."),
	)
	fmt.Print(doc)
	// Output:
	// # Trip Plan: New York to Tokyo
	//
	// - Origin: New York
	// - Destination: Tokyo
	// - Dates: 2025-06-01 to 2025-06-08 (7 nights)
	// - Budget: Moderate
	// - Travelers: 2
	// - Interests: Food & Cuisine
	//
	// ## ✈️ Flights
	//
	// JAL 005, nonstop.
	//
	// ## 🏛️ Attractions
	//
	// Tsukiji outer market.
	//
	// ## 📝 Trip Summary
	//
	// Seven days of ramen and temples.
}

func TestDocumentEmptyWithoutSuccess(t *testing.T) {
	doc := AssembleDocument(tokyoRequest(),
		agents.Failure(agents.KindFlight, "x"),
		agents.Failure(agents.KindSummary, "y"),
	)
	assert.True(t, doc.Empty())
	assert.Equal(t, "", doc.String())
}

func TestDocumentHTML(t *testing.T) {
	doc := AssembleDocument(tokyoRequest(), agents.Success(agents.KindFlight, "**JAL 005**"))
	html := doc.HTML()
	assert.Contains(t, html, "<h1>Trip Plan: New York to Tokyo</h1>")
	assert.Contains(t, html, "<strong>JAL 005</strong>")
	assert.True(t, doc.HasSection(agents.KindFlight))
	assert.False(t, doc.HasSection(agents.KindHotel))
}

func TestDocumentID(t *testing.T) {
	a := AssembleDocument(tokyoRequest(), agents.Success(agents.KindFlight, "JAL"))
	b := AssembleDocument(tokyoRequest(), agents.Success(agents.KindFlight, "JAL"))
	c := AssembleDocument(tokyoRequest(), agents.Success(agents.KindFlight, "ANA"))
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Len(t, a.ID(), 36)
}

func TestFilename(t *testing.T) {
	req := tokyoRequest()
	assert.Equal(t, "trip_plan_Tokyo_2025-06-01.md", Filename(req))
	req.Destination = "Paris/Lyon"
	assert.Equal(t, "trip_plan_Paris_Lyon_2025-06-01.md", Filename(req))
	req.Destination = "New York"
	assert.True(t, strings.HasPrefix(Filename(req), "trip_plan_New York_"))
}
