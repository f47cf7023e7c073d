package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/access"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/Harshitk-cp/frontdesk/internal/registry"
)

const (
	ToolArriveMeeting    = "arrive_meeting"
	ToolArriveCourier    = "arrive_courier"
	ToolArriveContractor = "arrive_contractor"
	ToolSignOut          = "sign_out"
	ToolGeneralEnquiry   = "general_enquiry"
	ToolCallReception    = "call_reception"
	ToolListEmployees    = "list_employees"
	ToolListOnsite       = "list_onsite"
	ToolVisitorsOnsite   = "visitors_onsite"
)

var pinParam = domain.Param{
	Name:        "pin",
	Type:        domain.ParamString,
	Description: "Admin PIN for access verification.",
	Required:    true,
}

func (d *Dispatcher) catalog() []Tool {
	meeting := domain.ToolSpec{
		Name:        ToolArriveMeeting,
		Description: "Register a visitor for a meeting.",
		Params: []domain.Param{
			{Name: "visitor_name", Type: domain.ParamString, Description: "Name of the visitor.", Required: true},
			{Name: "employee_name", Type: domain.ParamString, Description: "Name of the employee to meet.", Required: true},
		},
	}
	if d.meetingPIN {
		meeting.Params = append(meeting.Params, domain.Param{
			Name: "pin", Type: domain.ParamString, Description: "Meeting PIN, when the visitor was given one.",
		})
	}

	return []Tool{
		{Spec: meeting, Handler: d.arriveMeeting},
		{
			Spec: domain.ToolSpec{
				Name:        ToolArriveCourier,
				Description: "Register a courier arrival.",
				Params: []domain.Param{
					{Name: "courier_name", Type: domain.ParamString, Description: "Name of the courier.", Required: true},
				},
			},
			Handler: d.arriveCourier,
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolArriveContractor,
				Description: "Register a contractor arrival.",
				Params: []domain.Param{
					{Name: "contractor_name", Type: domain.ParamString, Description: "Name of the contractor.", Required: true},
					{Name: "company_name", Type: domain.ParamString, Description: "Name of the contractor's company.", Required: true},
				},
			},
			Handler: d.arriveContractor,
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolSignOut,
				Description: "Sign out a visitor.",
				Params: []domain.Param{
					{Name: "visitor_id", Type: domain.ParamInteger, Description: "ID of the visitor to sign out.", Required: true},
				},
			},
			Handler: d.signOut,
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolGeneralEnquiry,
				Description: "Notify reception when a visitor makes a general enquiry.",
			},
			Handler: d.notifyHandler(titleGeneralEnquiry, bodyGeneralEnquiry),
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolCallReception,
				Description: "Notify reception for assistance.",
			},
			Handler: d.notifyHandler(titleAssistance, bodyAssistance),
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolListEmployees,
				Description: "List employees if the pin is correct. Optionally include email addresses.",
				Params: []domain.Param{
					pinParam,
					{Name: "include_email", Type: domain.ParamBoolean, Description: "Include email addresses if true."},
				},
				Privileged: true,
			},
			Handler: d.guarded(d.listEmployees),
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolListOnsite,
				Description: "List people onsite if the pin is correct.",
				Params:      []domain.Param{pinParam},
				Privileged:  true,
			},
			Handler: d.guarded(d.listOnsite),
		},
		{
			Spec: domain.ToolSpec{
				Name:        ToolVisitorsOnsite,
				Description: "List visitors onsite if the pin is correct.",
				Params:      []domain.Param{pinParam},
				Privileged:  true,
			},
			Handler: d.guarded(d.visitorsOnsite),
		},
	}
}

func (d *Dispatcher) arriveMeeting(ctx context.Context, _ domain.Call, args Args) (string, domain.Outcome, error) {
	req := domain.ArrivalRequest{
		Kind:             domain.ArrivalMeeting,
		VisitorName:      args.str("visitor_name"),
		CounterpartyName: args.str("employee_name"),
		PIN:              args.str("pin"),
	}
	raw, err := d.registry.ArriveMeeting(ctx, req.VisitorName, req.CounterpartyName, req.PIN)
	return d.arrived(ctx, req, raw, err, msgEmployeeNotFound)
}

func (d *Dispatcher) arriveCourier(ctx context.Context, _ domain.Call, args Args) (string, domain.Outcome, error) {
	req := domain.ArrivalRequest{
		Kind:        domain.ArrivalCourier,
		VisitorName: args.str("courier_name"),
	}
	raw, err := d.registry.ArriveCourier(ctx, req.VisitorName)
	return d.arrived(ctx, req, raw, err, "")
}

func (d *Dispatcher) arriveContractor(ctx context.Context, _ domain.Call, args Args) (string, domain.Outcome, error) {
	req := domain.ArrivalRequest{
		Kind:        domain.ArrivalContractor,
		VisitorName: args.str("contractor_name"),
		CompanyName: args.str("company_name"),
	}
	raw, err := d.registry.ArriveContractor(ctx, req.VisitorName, req.CompanyName)
	return d.arrived(ctx, req, raw, err, msgCompanyNotFound)
}

// arrived turns a registration answer into speech. notFound is the message
// for a 404; empty means a 404 is reported as a generic failure.
func (d *Dispatcher) arrived(ctx context.Context, req domain.ArrivalRequest, raw []byte, err error, notFound string) (string, domain.Outcome, error) {
	if err != nil {
		status := registry.StatusCode(err)
		switch {
		case status == 0:
			return "", "", err
		case errors.Is(err, registry.ErrNotFound) && notFound != "":
			return notFound, domain.OutcomeNotFound, nil
		case errors.Is(err, registry.ErrForbidden):
			return msgUnauthorized, domain.OutcomeForbidden, nil
		default:
			return registerFailedMessage(req.Kind, status), domain.OutcomeFailure, nil
		}
	}

	if !d.reconcile {
		return string(raw), domain.OutcomeSuccess, nil
	}
	arrival := d.reconcileArrival(ctx, req, raw)
	return registeredMessage(req, arrival.Visitor), domain.OutcomeSuccess, nil
}

// reconcileArrival looks up the record the registration just created. A
// failed lookup still counts as a successful registration.
func (d *Dispatcher) reconcileArrival(ctx context.Context, req domain.ArrivalRequest, raw []byte) domain.Arrival {
	arrival := domain.Arrival{Raw: raw}
	visitors, err := d.registry.ListVisitors(ctx)
	if err != nil {
		d.logger.Warn("visitor lookup after registration failed",
			zap.String("kind", string(req.Kind)), zap.Error(err))
		return arrival
	}
	arrival.Visitor = LatestMatch(visitors, req)
	if arrival.Visitor == nil {
		d.logger.Warn("registered visitor not found in listing",
			zap.String("kind", string(req.Kind)), zap.Int("visitors", len(visitors)))
	}
	return arrival
}

func (d *Dispatcher) signOut(ctx context.Context, _ domain.Call, args Args) (string, domain.Outcome, error) {
	id := args.integer("visitor_id")
	if _, err := d.registry.SignOut(ctx, id); err != nil {
		status := registry.StatusCode(err)
		switch {
		case status == 0:
			return "", "", err
		case errors.Is(err, registry.ErrNotFound):
			return msgVisitorNotFound, domain.OutcomeNotFound, nil
		case errors.Is(err, registry.ErrForbidden):
			return msgUnauthorized, domain.OutcomeForbidden, nil
		default:
			return signOutFailedMessage(status), domain.OutcomeFailure, nil
		}
	}
	return signedOutMessage(id), domain.OutcomeSuccess, nil
}

func (d *Dispatcher) notifyHandler(title, body string) Handler {
	return func(ctx context.Context, _ domain.Call, _ Args) (string, domain.Outcome, error) {
		if err := d.notifier.Notify(ctx, title, body); err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			return err.Error(), domain.OutcomeFailure, nil
		}
		return notifiedMessage(d.notifiedChannels()), domain.OutcomeSuccess, nil
	}
}

// guarded checks the PIN before next runs. On any denial the registry is
// never reached.
func (d *Dispatcher) guarded(next Handler) Handler {
	return func(ctx context.Context, call domain.Call, args Args) (string, domain.Outcome, error) {
		err := d.gate.Authorize(ctx, call.Session, args.str("pin"))
		switch {
		case err == nil:
			return next(ctx, call, args)
		case errors.Is(err, access.ErrLockedOut):
			return msgPINLocked, domain.OutcomeLocked, nil
		case errors.Is(err, access.ErrThrottled):
			return msgPINThrottled, domain.OutcomeDenied, nil
		default:
			return msgPINDenied, domain.OutcomeDenied, nil
		}
	}
}

func (d *Dispatcher) listEmployees(ctx context.Context, _ domain.Call, args Args) (string, domain.Outcome, error) {
	employees, err := d.registry.ListEmployees(ctx)
	if err != nil {
		return listFailure(err, "employees")
	}
	return employeesMessage(employees, args.boolean("include_email")), domain.OutcomeSuccess, nil
}

func (d *Dispatcher) listOnsite(ctx context.Context, _ domain.Call, _ Args) (string, domain.Outcome, error) {
	people, err := d.registry.ListOnsite(ctx)
	if err != nil {
		return listFailure(err, "the onsite list")
	}
	return onsiteMessage(people), domain.OutcomeSuccess, nil
}

func (d *Dispatcher) visitorsOnsite(ctx context.Context, _ domain.Call, _ Args) (string, domain.Outcome, error) {
	visitors, err := d.registry.ListVisitorsOnsite(ctx)
	if err != nil {
		return listFailure(err, "visitors onsite")
	}
	return visitorsOnsiteMessage(visitors), domain.OutcomeSuccess, nil
}

func listFailure(err error, what string) (string, domain.Outcome, error) {
	status := registry.StatusCode(err)
	switch {
	case status == 0:
		return "", "", err
	case errors.Is(err, registry.ErrForbidden):
		return msgUnauthorized, domain.OutcomeForbidden, nil
	default:
		return retrieveFailedMessage(what, status), domain.OutcomeFailure, nil
	}
}
