package domain

// CartItem is one checkout line.
type CartItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// PaymentIntent is the ephemeral handle the backend issues for a checkout.
// The client secret is consumed by the hosted widget and never stored.
type PaymentIntent struct {
	ClientSecret string `json:"client_secret"`
}

// OrderDetails is the post-verification order summary.
type OrderDetails struct {
	Success bool    `json:"success"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	CarName string  `json:"car_name,omitempty"`
}

// CardDetails and ShippingAddress are collected by the checkout form and
// handed to the widget; the storefront never forwards them to the backend.
type CardDetails struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

type ShippingAddress struct {
	Line1      string
	City       string
	PostalCode string
	Country    string
}

// ConfirmResult is the widget's answer to a confirmation attempt.
// RedirectURL is set when the processor requires an off-page step (3-D
// Secure); the user returns to the confirmation route afterwards.
type ConfirmResult struct {
	Status      string
	RedirectURL string
}

const ConfirmStatusSucceeded = "succeeded"

type CheckoutPhase string

const (
	PhaseConfirming             CheckoutPhase = "confirming"
	PhaseVerifyingAfterRedirect CheckoutPhase = "verifying_after_redirect"
	PhaseSucceeded              CheckoutPhase = "succeeded"
	PhaseFailed                 CheckoutPhase = "failed"
)

// CheckoutSession is the orchestrator's state for one purchase attempt.
type CheckoutSession struct {
	Phase        CheckoutPhase
	CarID        int64
	Quantity     int
	ClientSecret string
	RedirectURL  string
	Order        *OrderDetails
	FailureMsg   string
}

// ToggleOutcome tags how an optimistic toggle settled.
type ToggleOutcome string

const (
	ToggleApplied        ToggleOutcome = "applied"
	ToggleRolledBack     ToggleOutcome = "rolled_back"
	ToggleKeptOptimistic ToggleOutcome = "kept_optimistic"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// ToggleResult is what a view needs to render the toast: the settled
// membership plus a message and its severity.
type ToggleResult struct {
	Outcome  ToggleOutcome
	Relation Relation
	CarID    int64
	Present  bool
	Message  string
	Level    NoticeLevel
}
