package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloce/showroom/internal/domain"
)

func TestIntentIDFromSecret(t *testing.T) {
	cases := []struct {
		secret string
		want   string
	}{
		{"pi_3Abc_secret_xyz", "pi_3Abc"},
		{"pi_1_secret_", "pi_1"},
		{"_secret_xyz", ""},
		{"no-separator", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IntentIDFromSecret(tc.secret), tc.secret)
	}
}

func TestConfirmInPageSuccess(t *testing.T) {
	var gotPath, gotUser string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"id": "pi_1", "status": "succeeded"}`))
	}))
	defer srv.Close()

	w := New("pk_test_123", srv.URL)
	res, err := w.Confirm(context.Background(), "pi_1_secret_abc",
		domain.CardDetails{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "123"},
		domain.ShippingAddress{Line1: "1 Main St", City: "Modena", PostalCode: "41121", Country: "IT"},
		"http://localhost:8080/payment-confirmation")
	require.NoError(t, err)

	assert.Equal(t, domain.ConfirmStatusSucceeded, res.Status)
	assert.Empty(t, res.RedirectURL)
	assert.Equal(t, "/v1/payment_intents/pi_1/confirm", gotPath)
	assert.Equal(t, "pk_test_123", gotUser)
	assert.Equal(t, "pi_1_secret_abc", gotForm["client_secret"][0])
	assert.Equal(t, "http://localhost:8080/payment-confirmation", gotForm["return_url"][0])
}

func TestConfirmRedirectDemand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "pi_1",
			"status": "requires_action",
			"next_action": {"redirect_to_url": {"url": "https://bank.example/3ds"}}
		}`))
	}))
	defer srv.Close()

	w := New("pk_test_123", srv.URL)
	res, err := w.Confirm(context.Background(), "pi_1_secret_abc", domain.CardDetails{}, domain.ShippingAddress{}, "")
	require.NoError(t, err)
	assert.Equal(t, "requires_action", res.Status)
	assert.Equal(t, "https://bank.example/3ds", res.RedirectURL)
}

func TestConfirmDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"message": "Your card was declined."}}`))
	}))
	defer srv.Close()

	w := New("pk_test_123", srv.URL)
	_, err := w.Confirm(context.Background(), "pi_1_secret_abc", domain.CardDetails{}, domain.ShippingAddress{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestConfirmRejectsMalformedSecret(t *testing.T) {
	w := New("pk_test_123", "http://unused")
	_, err := w.Confirm(context.Background(), "garbage", domain.CardDetails{}, domain.ShippingAddress{}, "")
	assert.Error(t, err)
}

func TestConfirmWithoutKey(t *testing.T) {
	w := New("", "http://unused")
	_, err := w.Confirm(context.Background(), "pi_1_secret_abc", domain.CardDetails{}, domain.ShippingAddress{}, "")
	assert.Error(t, err)
}
