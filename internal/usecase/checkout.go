package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/veloce/showroom/internal/domain"
)

// CheckoutUC runs the purchase sequence: intent from the backend, widget
// confirmation (in-page preferred, redirect tolerated), verification after
// a redirect. Each stage maps its failures to one user-visible state and
// nothing retries automatically.
type CheckoutUC struct {
	Payments  domain.PaymentAPI
	Widget    domain.PaymentWidget
	ReturnURL string
}

// Begin requests a payment intent for one car line and opens a session in
// the Confirming phase.
func (uc *CheckoutUC) Begin(ctx context.Context, carID int64, quantity int) (*domain.CheckoutSession, error) {
	if quantity < 1 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	intent, err := uc.Payments.CreateIntent(ctx, []domain.CartItem{{ID: carID, Quantity: quantity}})
	if err != nil {
		return nil, err
	}
	return &domain.CheckoutSession{
		Phase:        domain.PhaseConfirming,
		CarID:        carID,
		Quantity:     quantity,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmInPage hands the collected details to the widget. A succeeded
// answer is terminal with no verification call; a redirect demand moves the
// session to VerifyingAfterRedirect; everything else fails the session.
func (uc *CheckoutUC) ConfirmInPage(ctx context.Context, s *domain.CheckoutSession, card domain.CardDetails, addr domain.ShippingAddress) *domain.CheckoutSession {
	res, err := uc.Widget.Confirm(ctx, s.ClientSecret, card, addr, uc.ReturnURL)
	if err != nil {
		log.Warn().Err(err).Int64("car_id", s.CarID).Msg("widget confirmation failed")
		s.Phase = domain.PhaseFailed
		s.FailureMsg = "Payment failed. Please try again."
		return s
	}

	switch {
	case res.Status == domain.ConfirmStatusSucceeded:
		s.Phase = domain.PhaseSucceeded
	case res.RedirectURL != "":
		s.Phase = domain.PhaseVerifyingAfterRedirect
		s.RedirectURL = res.RedirectURL
	default:
		s.Phase = domain.PhaseFailed
		s.FailureMsg = "Payment failed. Please try again."
	}
	return s
}

// VerifyAfterRedirect materializes the order once the user lands back on
// the confirmation route. Missing parameters are an immediate terminal
// error with zero network calls, which also covers direct navigation to
// the route without any prior intent.
func (uc *CheckoutUC) VerifyAfterRedirect(ctx context.Context, intentID, clientSecret string) (*domain.OrderDetails, error) {
	if intentID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing confirmation parameters", domain.ErrVerificationFailed)
	}
	order, err := uc.Payments.VerifyPayment(ctx, intentID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	if !order.Success {
		return nil, domain.ErrVerificationFailed
	}
	return order, nil
}
