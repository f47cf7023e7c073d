package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type SlackClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackClient(webhookURL string, timeout time.Duration) *SlackClient {
	return &SlackClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *SlackClient) Name() string { return "Slack" }

func (c *SlackClient) Send(ctx context.Context, msg Message) error {
	return postJSON(ctx, c.httpClient, c.webhookURL, SlackPayload(msg))
}

type slackMessage struct {
	Text string `json:"text"`
}

func SlackPayload(msg Message) any {
	return slackMessage{Text: fmt.Sprintf("*%s* \n%s", msg.Title, msg.Body)}
}
