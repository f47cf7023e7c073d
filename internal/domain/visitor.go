package domain

import (
	"encoding/json"
	"time"
)

type ArrivalKind string

const (
	ArrivalMeeting    ArrivalKind = "Meeting"
	ArrivalCourier    ArrivalKind = "Courier"
	ArrivalContractor ArrivalKind = "Contractor"
)

// ArrivalRequest is submitted once per physical arrival. The backend assigns the id.
type ArrivalRequest struct {
	Kind             ArrivalKind `json:"kind"`
	VisitorName      string      `json:"visitor_name"`
	CounterpartyName string      `json:"counterparty_name,omitempty"`
	CompanyName      string      `json:"company_name,omitempty"`
	PIN              string      `json:"-"`
}

// Visitor is a registry record. It is read-only to the agent.
type Visitor struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Reason            string `json:"reason"`
	MeetingWith       string `json:"meetingWith,omitempty"`
	ContractorCompany string `json:"contractorCompany,omitempty"`
	ArrivalTime       string `json:"arrivalTime"`
}

var arrivalLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ArrivedAt parses ArrivalTime. The backend emits ISO-8601 with or without a zone.
func (v Visitor) ArrivedAt() (time.Time, bool) {
	if v.ArrivalTime == "" {
		return time.Time{}, false
	}
	for _, layout := range arrivalLayouts {
		if t, err := time.Parse(layout, v.ArrivalTime); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Matches reports whether the record is the one created by req.
func (v Visitor) Matches(req ArrivalRequest) bool {
	if v.Name != req.VisitorName {
		return false
	}
	switch req.Kind {
	case ArrivalMeeting:
		return v.MeetingWith == req.CounterpartyName
	case ArrivalCourier:
		return v.Reason == string(ArrivalCourier)
	case ArrivalContractor:
		return v.ContractorCompany == req.CompanyName
	default:
		return false
	}
}

type Employee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OnsitePerson is an entry of the combined onsite list (employees and visitors).
type OnsitePerson struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type OnsiteVisitor struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Arrival is the registry's answer to an arrival submission plus the
// reconciled record, when one could be found.
type Arrival struct {
	Raw     json.RawMessage `json:"raw,omitempty"`
	Visitor *Visitor        `json:"visitor,omitempty"`
}
