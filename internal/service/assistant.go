package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

// Reply is the answer to one transcribed utterance.
type Reply struct {
	Intent  domain.Intent  `json:"intent"`
	Output  string         `json:"output"`
	Outcome domain.Outcome `json:"outcome"`
}

// Assistant answers free text by classifying it and calling the matching
// tool. It prompts for any slot the text did not contain.
type Assistant struct {
	classifier domain.IntentClassifier
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewAssistant(classifier domain.IntentClassifier, dispatcher *Dispatcher, logger *zap.Logger) *Assistant {
	return &Assistant{classifier: classifier, dispatcher: dispatcher, logger: logger}
}

func (a *Assistant) HandleUtterance(ctx context.Context, session, text string) (Reply, error) {
	in, err := a.classifier.Classify(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	a.logger.Debug("utterance classified", zap.String("session", session), zap.String("intent", string(in.Name)))

	if prompt := missingSlot(in); prompt != "" {
		return Reply{Intent: in, Output: prompt, Outcome: domain.OutcomePrompt}, nil
	}

	tool, args := toolFor(in)
	if !a.dispatcher.Has(tool) {
		// Anything the deployment does not offer goes to reception.
		tool, args = ToolGeneralEnquiry, nil
		if !a.dispatcher.Has(tool) {
			return Reply{Intent: in, Output: msgNotUnderstood, Outcome: domain.OutcomePrompt}, nil
		}
	}

	res, err := a.dispatcher.Invoke(ctx, domain.Call{Session: session, Tool: tool, Arguments: args})
	if err != nil {
		if errors.Is(err, ErrInvalidArgs) {
			return Reply{Intent: in, Output: msgNotUnderstood, Outcome: domain.OutcomePrompt}, nil
		}
		return Reply{}, err
	}
	return Reply{Intent: in, Output: res.Output, Outcome: res.Outcome}, nil
}

func missingSlot(in domain.Intent) string {
	s := in.Slots
	switch in.Name {
	case domain.IntentArriveMeeting:
		if s.Visitor == "" {
			return promptVisitor
		}
		if s.Employee == "" {
			return promptEmployee
		}
	case domain.IntentArriveCourier:
		if s.Visitor == "" {
			return promptCourier
		}
	case domain.IntentArriveContractor:
		if s.Visitor == "" {
			return promptVisitor
		}
		if s.Company == "" {
			return promptCompany
		}
	case domain.IntentSignOut:
		if s.VisitorID == "" {
			return promptVisitorID
		}
	case domain.IntentListEmployees:
		if s.PIN == "" {
			return promptEmployeesPIN
		}
	case domain.IntentListOnsite:
		if s.PIN == "" {
			return promptOnsitePIN
		}
	}
	return ""
}

func toolFor(in domain.Intent) (string, map[string]any) {
	s := in.Slots
	switch in.Name {
	case domain.IntentArriveMeeting:
		args := map[string]any{"visitor_name": s.Visitor, "employee_name": s.Employee}
		if s.PIN != "" {
			args["pin"] = s.PIN
		}
		return ToolArriveMeeting, args
	case domain.IntentArriveCourier:
		return ToolArriveCourier, map[string]any{"courier_name": s.Visitor}
	case domain.IntentArriveContractor:
		return ToolArriveContractor, map[string]any{"contractor_name": s.Visitor, "company_name": s.Company}
	case domain.IntentSignOut:
		id, _ := strconv.Atoi(s.VisitorID)
		return ToolSignOut, map[string]any{"visitor_id": id}
	case domain.IntentListEmployees:
		return ToolListEmployees, map[string]any{"pin": s.PIN}
	case domain.IntentListOnsite:
		return ToolListOnsite, map[string]any{"pin": s.PIN}
	default:
		return ToolGeneralEnquiry, nil
	}
}
