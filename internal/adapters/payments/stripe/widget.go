package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veloce/showroom/internal/domain"
)

// Widget drives the processor's hosted payment surface from the storefront:
// given the backend-issued client secret it confirms the intent, preferring
// in-page completion and falling back to a redirect the user returns from
// via the confirmation route.
type Widget struct {
	publishableKey string
	baseURL        string
	httpClient     *http.Client
}

func New(publishableKey, baseURL string) *Widget {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &Widget{
		publishableKey: publishableKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

type confirmResp struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	NextAction *struct {
		RedirectToURL *struct {
			URL string `json:"url"`
		} `json:"redirect_to_url"`
	} `json:"next_action"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// IntentIDFromSecret derives the intent id from a "pi_..._secret_..." client
// secret. Empty when the secret is not in that shape.
func IntentIDFromSecret(clientSecret string) string {
	idx := strings.Index(clientSecret, "_secret")
	if idx <= 0 {
		return ""
	}
	return clientSecret[:idx]
}

func (w *Widget) Confirm(ctx context.Context, clientSecret string, card domain.CardDetails, addr domain.ShippingAddress, returnURL string) (*domain.ConfirmResult, error) {
	if w.publishableKey == "" {
		return nil, errors.New("stripe publishable key missing (STRIPE_PUBLISHABLE_KEY)")
	}
	intentID := IntentIDFromSecret(clientSecret)
	if intentID == "" {
		return nil, errors.New("malformed client secret")
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", card.ExpMonth)
	form.Set("payment_method_data[card][exp_year]", card.ExpYear)
	form.Set("payment_method_data[card][cvc]", card.CVC)
	form.Set("shipping[address][line1]", addr.Line1)
	form.Set("shipping[address][city]", addr.City)
	form.Set("shipping[address][postal_code]", addr.PostalCode)
	form.Set("shipping[address][country]", addr.Country)
	if returnURL != "" {
		form.Set("return_url", returnURL)
	}

	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", w.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(w.publishableKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment widget unreachable: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var cr confirmResp
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decode widget response: %w", err)
	}
	if res.StatusCode >= 300 {
		if cr.Error != nil && cr.Error.Message != "" {
			return nil, fmt.Errorf("payment declined: %s", cr.Error.Message)
		}
		return nil, fmt.Errorf("widget confirm status %d", res.StatusCode)
	}

	out := &domain.ConfirmResult{Status: cr.Status}
	if cr.NextAction != nil && cr.NextAction.RedirectToURL != nil {
		out.RedirectURL = cr.NextAction.RedirectToURL.URL
	}
	return out, nil
}
