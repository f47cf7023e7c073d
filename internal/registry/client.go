// Package registry is the REST client for the visitor-registry backend.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Harshitk-cp/frontdesk/internal/buildconfig"
	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const (
	pathArriveMeeting    = "/visitors/arrive-meeting"
	pathArriveCourier    = "/visitors/arrive-courier"
	pathArriveContractor = "/visitors/arrive-contractor"
	pathSignOut          = "/visitors/sign-out"
	pathVisitors         = "/visitors"
	pathVisitorsOnsite   = "/visitors/on-site"
	pathEmployees        = "/employees"
	pathOnsite           = "/on_site"
)

type Client struct {
	baseURL    string
	shape      string
	httpClient *http.Client
}

func NewClient(baseURL, shape string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, shape, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL, shape string, httpClient *http.Client) *Client {
	if shape == "" {
		shape = config.ShapeCamel
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		shape:      shape,
		httpClient: httpClient,
	}
}

type meetingCamel struct {
	VisitorName string `json:"visitorName"`
	MeetingWith string `json:"meetingWith"`
}

type meetingPascal struct {
	VisitorName string `json:"VisitorName"`
	MeetingWith string `json:"MeetingWith"`
	PIN         string `json:"PIN,omitempty"`
}

type courierRequest struct {
	CourierName string `json:"CourierName"`
}

type contractorRequest struct {
	VisitorName string `json:"VisitorName"`
	Company     string `json:"Company"`
}

type signOutRequest struct {
	VisitorID int `json:"VisitorId"`
}

func (c *Client) ArriveMeeting(ctx context.Context, visitorName, employeeName, pin string) (json.RawMessage, error) {
	var body any
	if c.shape == config.ShapePascal {
		body = meetingPascal{VisitorName: visitorName, MeetingWith: employeeName, PIN: pin}
	} else {
		body = meetingCamel{VisitorName: visitorName, MeetingWith: employeeName}
	}
	return c.post(ctx, "arrive meeting", pathArriveMeeting, body)
}

func (c *Client) ArriveCourier(ctx context.Context, courierName string) (json.RawMessage, error) {
	return c.post(ctx, "arrive courier", pathArriveCourier, courierRequest{CourierName: courierName})
}

func (c *Client) ArriveContractor(ctx context.Context, contractorName, companyName string) (json.RawMessage, error) {
	return c.post(ctx, "arrive contractor", pathArriveContractor, contractorRequest{VisitorName: contractorName, Company: companyName})
}

func (c *Client) SignOut(ctx context.Context, visitorID int) (json.RawMessage, error) {
	return c.post(ctx, "sign out", pathSignOut, signOutRequest{VisitorID: visitorID})
}

func (c *Client) ListVisitors(ctx context.Context) ([]domain.Visitor, error) {
	var out []domain.Visitor
	if err := c.get(ctx, "list visitors", pathVisitors, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	if err := c.get(ctx, "list employees", pathEmployees, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOnsite(ctx context.Context) ([]domain.OnsitePerson, error) {
	var out []domain.OnsitePerson
	if err := c.get(ctx, "list onsite", pathOnsite, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListVisitorsOnsite(ctx context.Context) ([]domain.OnsiteVisitor, error) {
	var out []domain.OnsiteVisitor
	if err := c.get(ctx, "list visitors onsite", pathVisitorsOnsite, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(respBody) {
		// Some endpoints answer 200 with a plain-text confirmation.
		quoted, _ := json.Marshal(strings.TrimSpace(string(respBody)))
		return quoted, nil
	}
	return json.RawMessage(respBody), nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}

	respBody, err := c.do(req, op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildconfig.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
