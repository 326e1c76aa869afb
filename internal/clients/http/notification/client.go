package notification

import (
	"context"
	"net/http"

	"github.com/Apurer/shop-order-service/internal/clients/http/rest"
)

// Request is the body accepted by POST /api/notifications/send.
type Request struct {
	UserID  int64  `json:"userId"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Client talks to the notification service REST API.
type Client struct {
	api *rest.Client
}

// NewNotificationClient instantiates the notification client. A nil httpClient gets a traced default.
func NewNotificationClient(baseURL string, httpClient *http.Client) (*Client, error) {
	api, err := rest.New("notification service", baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Send delivers one notification.
func (c *Client) Send(ctx context.Context, req Request) error {
	return c.api.Do(ctx, http.MethodPost, "/api/notifications/send", nil, req, nil)
}
