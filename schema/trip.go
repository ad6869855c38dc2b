package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for trip dates
const DateLayout = "2006-01-02"

// MaxTravelers is the largest party a single request may plan for
const MaxTravelers = 10

// TripRequest describes a single trip to plan.
// A request is treated as an immutable value for the duration of a planning run;
// use Clone before handing it to code that may keep a reference.
type TripRequest struct {
	// Origin city the travelers depart from
	Origin string `json:"origin" yaml:"origin" validate:"required"`
	// Destination city of the trip
	Destination string `json:"destination" yaml:"destination" validate:"required"`
	// StartDate departure day
	StartDate time.Time `json:"start_date" yaml:"start_date" validate:"required"`
	// EndDate return day, strictly after StartDate
	EndDate time.Time `json:"end_date" yaml:"end_date" validate:"required,gtfield=StartDate"`
	// Budget spending tier
	Budget BudgetTier `json:"budget" yaml:"budget" validate:"budget_tier"`
	// Travelers number of people travelling
	Travelers int `json:"travelers" yaml:"travelers" validate:"min=1,max=10"`
	// Interests free form interest tags, may be empty
	Interests []string `json:"interests,omitempty" yaml:"interests,omitempty" validate:"dive,required"`
}

// Date returns the calendar day y-m-d at UTC midnight
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expect YYYY-MM-DD", s)
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Clone returns a deep copy of the request
func (r TripRequest) Clone() TripRequest {
	ret := r
	if r.Interests != nil {
		ret.Interests = make([]string, len(r.Interests))
		copy(ret.Interests, r.Interests)
	}
	return ret
}

// Normalize returns a copy with trimmed text, dates truncated to calendar days
// and duplicate interests removed (first occurrence wins).
func (r TripRequest) Normalize() TripRequest {
	ret := r.Clone()
	ret.Origin = strings.TrimSpace(ret.Origin)
	ret.Destination = strings.TrimSpace(ret.Destination)
	ret.StartDate = truncateDay(ret.StartDate)
	ret.EndDate = truncateDay(ret.EndDate)
	if tier, ok := ParseBudgetTier(string(ret.Budget)); ok {
		ret.Budget = tier
	}
	if len(ret.Interests) > 0 {
		seen := make(map[string]struct{}, len(ret.Interests))
		interests := make([]string, 0, len(ret.Interests))
		for _, v := range ret.Interests {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, found := seen[key]; found {
				continue
			}
			seen[key] = struct{}{}
			interests = append(interests, v)
		}
		ret.Interests = interests
	}
	return ret
}

// Nights returns the number of nights between start and end date
func (r TripRequest) Nights() int {
	return int(truncateDay(r.EndDate).Sub(truncateDay(r.StartDate)).Hours() / 24)
}

// Consistent performs the minimal sanity checks an agent relies on:
// the end date is not before the start date and at least one traveler is present.
func (r TripRequest) Consistent() error {
	var errs []error
	if r.EndDate.Before(r.StartDate) {
		errs = append(errs, errors.New("end date is before start date"))
	}
	if r.Travelers < 1 {
		errs = append(errs, errors.New("traveler count must be at least 1"))
	}
	return errors.Join(errs...)
}

// InterestList renders the interests for humans, "none specified" when empty
func (r TripRequest) InterestList() string {
	if len(r.Interests) == 0 {
		return "none specified"
	}
	return strings.Join(r.Interests, ", ")
}

// Info renders the request as a markdown bullet list
func (r TripRequest) Info() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Origin: %s\n", r.Origin)
	fmt.Fprintf(&sb, "- Destination: %s\n", r.Destination)
	fmt.Fprintf(&sb, "- Dates: %s to %s (%d nights)\n", r.StartDate.Format(DateLayout), r.EndDate.Format(DateLayout), r.Nights())
	fmt.Fprintf(&sb, "- Budget: %s\n", r.Budget)
	fmt.Fprintf(&sb, "- Travelers: %d\n", r.Travelers)
	fmt.Fprintf(&sb, "- Interests: %s", r.InterestList())
	return sb.String()
}
