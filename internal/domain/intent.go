package domain

type IntentName string

const (
	IntentArriveMeeting    IntentName = "arrive_meeting"
	IntentArriveCourier    IntentName = "arrive_courier"
	IntentArriveContractor IntentName = "arrive_contractor"
	IntentSignOut          IntentName = "sign_out"
	IntentListEmployees    IntentName = "list_employees"
	IntentListOnsite       IntentName = "list_onsite"
	IntentGeneralEnquiry   IntentName = "general_enquiry"
	IntentUnknown          IntentName = "unknown"
)

func ValidIntent(s string) bool {
	switch IntentName(s) {
	case IntentArriveMeeting, IntentArriveCourier, IntentArriveContractor, IntentSignOut,
		IntentListEmployees, IntentListOnsite, IntentGeneralEnquiry, IntentUnknown:
		return true
	}
	return false
}

// Slots holds the arguments extracted from free text. Empty means not found.
type Slots struct {
	Visitor   string `json:"visitor,omitempty"`
	Employee  string `json:"employee,omitempty"`
	Company   string `json:"company,omitempty"`
	VisitorID string `json:"visitor_id,omitempty"`
	PIN       string `json:"-"`
}

type Intent struct {
	Name  IntentName `json:"intent"`
	Slots Slots      `json:"slots"`
}
