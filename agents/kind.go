package agents

import (
	"fmt"
	"strings"
)

// Kind identifies one of the planning agents
type Kind int

const (
	KindFlight Kind = iota
	KindHotel
	KindAttraction
	KindSummary
)

// Kinds lists every agent kind in document order
var Kinds = []Kind{KindFlight, KindHotel, KindAttraction, KindSummary}

// IndependentKinds are the kinds that only depend on the trip request
var IndependentKinds = []Kind{KindFlight, KindHotel, KindAttraction}

func (k Kind) String() string {
	switch k {
	case KindFlight:
		return "flight"
	case KindHotel:
		return "hotel"
	case KindAttraction:
		return "attraction"
	case KindSummary:
		return "summary"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Title is the display name of the agent
func (k Kind) Title() string {
	switch k {
	case KindFlight:
		return "Flight Finder"
	case KindHotel:
		return "Hotel Explorer"
	case KindAttraction:
		return "Attraction Scout"
	case KindSummary:
		return "Trip Summarizer"
	}
	return k.String()
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k >= KindFlight && k <= KindSummary
}

// ParseKind resolves a kind by name
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown agent kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
