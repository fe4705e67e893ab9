package collaborators

import (
	"context"
	"net/http"

	"orderengine/internal/core/domain/model/order"

	"go.uber.org/zap"
)

type notificationPayload struct {
	OrderNumber string            `json:"order_number"`
	TemplateID  string            `json:"template_id"`
	To          string            `json:"to"`
	Subject     string            `json:"subject,omitempty"`
	Body        string            `json:"body,omitempty"`
	Variables   map[string]string `json:"variables,omitempty"`
}

// HTTPNotifier posts notifications to {baseURL}/notifications.
type HTTPNotifier struct {
	client client
}

func NewHTTPNotifier(baseURL string, httpClient *http.Client) *HTTPNotifier {
	return &HTTPNotifier{client: newClient(baseURL, httpClient)}
}

func (n *HTTPNotifier) Send(ctx context.Context, orderNumber string, notification order.Notification) error {
	return n.client.post(ctx, notificationPayload{
		OrderNumber: orderNumber,
		TemplateID:  notification.TemplateID,
		To:          notification.To,
		Subject:     notification.Subject,
		Body:        notification.Body,
		Variables:   notification.Variables,
	}, "notifications")
}

// LogNotifier accepts every notification and logs it.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, orderNumber string, notification order.Notification) error {
	n.logger.Info("notification",
		zap.String("order_number", orderNumber),
		zap.String("template", notification.TemplateID),
		zap.String("to", notification.To),
		zap.String("subject", notification.Subject),
	)
	return nil
}
