package service

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const (
	msgEmployeeNotFound = "The specified employee was not found. Please check the details and try again."
	msgCompanyNotFound  = "The specified company was not found. Please check the details and try again."
	msgVisitorNotFound  = "The specified visitor was not found. Please check the visitor ID and try again."
	msgUnauthorized     = "Unauthorized access. Please check your credentials."

	msgPINDenied    = "Invalid PIN. Access denied."
	msgPINLocked    = "Too many incorrect PIN attempts. Access is locked, please try again later."
	msgPINThrottled = "Please wait a moment before trying your PIN again."

	msgReceptionNotified = "Reception has been notified. Please wait for assistance."
	msgNoEmployees       = "There are no employees to list."
	msgNobodyOnsite      = "Nobody is currently onsite."
	msgNotUnderstood     = "Sorry, I didn't catch that. Could you say it again?"

	titleGeneralEnquiry = "GENERAL ENQUIRY"
	bodyGeneralEnquiry  = "A visitor has a general enquiry. Please assist at the front desk."
	titleAssistance     = "VISITOR ASSISTANCE NEEDED"
	bodyAssistance      = "A visitor has a needs assistance with their request. Please assist at the front desk."

	promptVisitor      = "Who is the visitor?"
	promptEmployee     = "Who are you meeting with?"
	promptCourier      = "What is the courier's name?"
	promptCompany      = "Which company are you from?"
	promptVisitorID    = "What is your visitor ID?"
	promptEmployeesPIN = "Please provide your PIN to access the employee list."
	promptOnsitePIN    = "Please provide your PIN to access the onsite list."
)

var arrivalNoun = map[domain.ArrivalKind]string{
	domain.ArrivalMeeting:    "meeting",
	domain.ArrivalCourier:    "courier",
	domain.ArrivalContractor: "contractor",
}

var arrivalSubject = map[domain.ArrivalKind]string{
	domain.ArrivalMeeting:    "Visitor",
	domain.ArrivalCourier:    "Courier",
	domain.ArrivalContractor: "Contractor",
}

var channelLabels = map[string]string{
	"Teams": "Microsoft Teams",
}

func registeredMessage(req domain.ArrivalRequest, v *domain.Visitor) string {
	subject := arrivalSubject[req.Kind]
	if v == nil {
		return fmt.Sprintf("%s %s has been registered successfully.", subject, req.VisitorName)
	}
	return fmt.Sprintf("%s %s has been registered successfully. Your visitor ID is %d. Please keep this ID for sign-out.",
		subject, req.VisitorName, v.ID)
}

func registerFailedMessage(kind domain.ArrivalKind, status int) string {
	return fmt.Sprintf("Failed to register the %s: %d", arrivalNoun[kind], status)
}

func signedOutMessage(id int) string {
	return fmt.Sprintf("Visitor %d has been signed out successfully. Thank you for visiting.", id)
}

func signOutFailedMessage(status int) string {
	return fmt.Sprintf("Failed to sign out the visitor: %d", status)
}

func retrieveFailedMessage(what string, status int) string {
	return fmt.Sprintf("Failed to retrieve %s: %d", what, status)
}

func employeesMessage(employees []domain.Employee, includeEmail bool) string {
	if len(employees) == 0 {
		return msgNoEmployees
	}
	parts := make([]string, 0, len(employees))
	for _, e := range employees {
		if includeEmail {
			parts = append(parts, fmt.Sprintf("%s (%s)", e.Name, e.Email))
		} else {
			parts = append(parts, e.Name)
		}
	}
	return "Employees: " + strings.Join(parts, ", ")
}

func onsiteMessage(people []domain.OnsitePerson) string {
	if len(people) == 0 {
		return msgNobodyOnsite
	}
	parts := make([]string, 0, len(people))
	for _, p := range people {
		parts = append(parts, fmt.Sprintf("%s (%s)", p.Name, p.Type))
	}
	return "Onsite: " + strings.Join(parts, ", ")
}

func visitorsOnsiteMessage(visitors []domain.OnsiteVisitor) string {
	if len(visitors) == 0 {
		return msgNobodyOnsite
	}
	parts := make([]string, 0, len(visitors))
	for _, v := range visitors {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Name, v.Reason))
	}
	return "Onsite: " + strings.Join(parts, ", ")
}

// notifiedMessage names the channels that carried the alert, or falls back
// to the plain acknowledgment when none are known.
func notifiedMessage(channels []string) string {
	if len(channels) == 0 {
		return msgReceptionNotified
	}
	labels := make([]string, 0, len(channels))
	for _, c := range channels {
		if l, ok := channelLabels[c]; ok {
			c = l
		}
		labels = append(labels, c)
	}
	var via string
	switch len(labels) {
	case 1:
		via = labels[0]
	default:
		via = strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
	return fmt.Sprintf("Reception has been notified via %s.", via)
}
