package showroomapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/veloce/showroom/internal/domain"
)

// CreateIntent asks the backend for a payment intent covering the cart. The
// Idempotency-Key header makes an accidental double-submit harmless.
func (c *Client) CreateIntent(ctx context.Context, items []domain.CartItem) (*domain.PaymentIntent, error) {
	if len(items) == 0 {
		return nil, errors.New("empty cart")
	}
	payload := map[string]any{"items": items}
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}

	var intent domain.PaymentIntent
	if err := c.sendJSONWithHeaders(ctx, http.MethodPost, "/payment/intent/", payload, &intent, headers); err != nil {
		return nil, err
	}
	if intent.ClientSecret == "" {
		return nil, errors.New("payment intent response missing client_secret")
	}
	return &intent, nil
}

// VerifyPayment materializes the order after a redirect-based confirmation.
// Some backend builds wrap the summary in {"data": ...}; both shapes decode.
func (c *Client) VerifyPayment(ctx context.Context, intentID, clientSecret string) (*domain.OrderDetails, error) {
	payload := map[string]string{
		"payment_intent_id":            intentID,
		"payment_intent_client_secret": clientSecret,
	}

	var envelope struct {
		Data *domain.OrderDetails `json:"data"`
		domain.OrderDetails
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/payment/verify/", payload, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return &envelope.OrderDetails, nil
}
