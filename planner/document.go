package planner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gitlab.com/golang-commonmark/markdown"

	"github.com/bububa/trip-agents/agents"
	"github.com/bububa/trip-agents/schema"
)

// Document is the downloadable markdown trip plan
type Document string

// sectionTitle labels the section of each agent kind
func sectionTitle(kind agents.Kind) string {
	switch kind {
	case agents.KindFlight:
		return "✈️ Flights"
	case agents.KindHotel:
		return "🏨 Hotels"
	case agents.KindAttraction:
		return "🏛️ Attractions"
	case agents.KindSummary:
		return "📝 Trip Summary"
	}
	return kind.Title()
}

// AssembleDocument renders the successful outcomes in the fixed order
// flights, hotels, attractions, summary. Failed outcomes contribute nothing,
// and the document is empty when no outcome succeeded.
func AssembleDocument(req schema.TripRequest, outcomes ...agents.Outcome) Document {
	var sections []agents.Outcome
	for _, kind := range agents.Kinds {
		for _, o := range outcomes {
			if o.Kind() == kind && o.Succeeded() {
				sections = append(sections, o)
				break
			}
		}
	}
	if len(sections) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Trip Plan: %s to %s\n\n", req.Origin, req.Destination)
	sb.WriteString(req.Info())
	sb.WriteString("\n")
	for _, o := range sections {
		fmt.Fprintf(&sb, "\n## %s\n\n", sectionTitle(o.Kind()))
		sb.WriteString(strings.TrimSpace(o.Text()))
		sb.WriteString("\n")
	}
	return Document(sb.String())
}

func (d Document) String() string {
	return string(d)
}

// Empty reports whether no section made it into the document
func (d Document) Empty() bool {
	return d == ""
}

// HasSection reports whether the section of kind is present
func (d Document) HasSection(kind agents.Kind) bool {
	return strings.Contains(string(d), "\n## "+sectionTitle(kind)+"\n")
}

// ID returns a content derived identifier, equal documents share the same ID
func (d Document) ID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(d)).String()
}

// HTML renders the document as an HTML fragment
func (d Document) HTML() string {
	if d.Empty() {
		return ""
	}
	md := markdown.New(markdown.HTML(false), markdown.Tables(true), markdown.Linkify(true))
	return md.RenderToString([]byte(d))
}

// Filename returns the download name trip_plan_<destination>_<YYYY-MM-DD>.md
func Filename(req schema.TripRequest) string {
	dest := strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == ':', r < 0x20:
			return '_'
		}
		return r
	}, strings.TrimSpace(req.Destination))
	return fmt.Sprintf("trip_plan_%s_%s.md", dest, req.StartDate.Format(schema.DateLayout))
}
