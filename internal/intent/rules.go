// Package intent derives a tool and its arguments from free text. It is the
// fallback path; the primary path is the model's own function calling.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

type rule struct {
	intent   domain.IntentName
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var rules = []rule{
	{domain.IntentArriveMeeting, []string{"meeting", "here to see"}},
	{domain.IntentArriveCourier, []string{"courier", "delivery"}},
	{domain.IntentArriveContractor, []string{"contractor"}},
	{domain.IntentSignOut, []string{"sign out", "signing out", "sign me out"}},
	{domain.IntentListEmployees, []string{"employee list", "show employees", "list employees"}},
	{domain.IntentListOnsite, []string{"who is onsite", "who's onsite", "people onsite", "on site list", "onsite list"}},
	{domain.IntentGeneralEnquiry, []string{"help", "reception"}},
}

var (
	nameCue     = regexp.MustCompile(`(?i)(?:visitor|courier|contractor|name is|called)\s+([a-z][a-z\s]*)`)
	employeeCue = regexp.MustCompile(`(?i)(?:meeting with|to meet|to see|with)\s+([a-z][a-z\s]*)`)
	companyCue  = regexp.MustCompile(`(?i)(?:from|company is|company|work for|working for)\s+([a-z][a-z&\s]*)`)
	visitorID   = regexp.MustCompile(`(?i)\b(?:id|number)\s*(?:is\s*)?(?:number\s*)?#?\s*(\d+)`)
	digitRun    = regexp.MustCompile(`\d[\d\s]*\d|\d`)
	pinCue      = regexp.MustCompile(`(?i)\b(?:pin|code|passcode)\b`)
)

// Words that end a captured name.
var nameStops = map[string]bool{
	"here": true, "to": true, "with": true, "meeting": true, "from": true,
	"and": true, "for": true, "i": true, "im": true, "is": true, "am": true,
	"please": true, "today": true, "at": true, "my": true, "the": true, "a": true,
	"an": true, "has": true, "have": true, "delivery": true, "deliveries": true,
	"delivering": true, "package": true, "packages": true, "parcel": true,
	"parcels": true, "drop": true, "dropping": true, "pickup": true, "collection": true,
}

// Rules is the keyword and regex extractor.
type Rules struct{}

func NewRules() *Rules {
	return &Rules{}
}

func (r *Rules) Classify(_ context.Context, text string) (domain.Intent, error) {
	return r.Extract(text), nil
}

// Extract classifies text and fills the slots the chosen intent needs.
func (r *Rules) Extract(text string) domain.Intent {
	name := ClassifyText(text)
	in := domain.Intent{Name: name}

	switch name {
	case domain.IntentArriveMeeting:
		in.Slots.Visitor = VisitorName(text)
		in.Slots.Employee = EmployeeName(text)
		if pinCue.MatchString(text) {
			in.Slots.PIN = PIN(text)
		}
	case domain.IntentArriveCourier:
		in.Slots.Visitor = VisitorName(text)
	case domain.IntentArriveContractor:
		in.Slots.Visitor = VisitorName(text)
		in.Slots.Company = CompanyName(text)
	case domain.IntentSignOut:
		in.Slots.VisitorID = VisitorID(text)
	case domain.IntentListEmployees, domain.IntentListOnsite:
		in.Slots.PIN = SpokenPIN(text)
	}
	return in
}

// ClassifyText returns the intent of the first matching rule, or unknown.
func ClassifyText(text string) domain.IntentName {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return domain.IntentUnknown
}

func VisitorName(text string) string {
	return firstName(nameCue, text)
}

func EmployeeName(text string) string {
	return firstName(employeeCue, text)
}

func CompanyName(text string) string {
	return firstName(companyCue, text)
}

func VisitorID(text string) string {
	if m := visitorID.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.Join(strings.Fields(digitRun.FindString(text)), "")
}

// PIN looks for a digit sequence first and falls back to spelled-out numbers.
func PIN(text string) string {
	if m := digitRun.FindString(text); m != "" {
		return strings.Join(strings.Fields(m), "")
	}
	if n, ok := WordsToNumber(text); ok {
		return n
	}
	return ""
}

// SpokenPIN is PIN for a whole utterance: number words only count when the
// text names a PIN or code.
func SpokenPIN(text string) string {
	if m := digitRun.FindString(text); m != "" {
		return strings.Join(strings.Fields(m), "")
	}
	if !pinCue.MatchString(text) {
		return ""
	}
	n, _ := WordsToNumber(text)
	return n
}

func firstName(re *regexp.Regexp, text string) string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if name := trimAtStop(m[1]); name != "" {
			return name
		}
	}
	return ""
}

func trimAtStop(span string) string {
	var kept []string
	for _, w := range strings.Fields(span) {
		if nameStops[strings.ToLower(strings.Trim(w, "'"))] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
