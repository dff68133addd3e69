package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// OrderCreatedEvent is posted to the configured webhook after an order
// commits, so fulfilment tooling can pick it up.
type OrderCreatedEvent struct {
	OrderID     uint    `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Email       string  `json:"email"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

// NotifyOrderCreated posts the event to ORDER_WEBHOOK_URL. A missing URL is
// not an error; the feature is optional.
func NotifyOrderCreated(event OrderCreatedEvent) error {
	webhookURL := os.Getenv("ORDER_WEBHOOK_URL")
	if webhookURL == "" {
		return nil
	}

	resp, err := resty.New().SetTimeout(10 * time.Second).
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(webhookURL)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("order webhook failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
