package domain

import "context"

// TokenProvider hands out a currently-valid short-lived bearer token, or
// ErrAuthRequired when no session exists. Resource calls ask for a token
// immediately before use; tokens rotate and must not be stored.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// CatalogAPI covers the car and review endpoints.
type CatalogAPI interface {
	ListCars(ctx context.Context) ([]Product, error)
	GetCar(ctx context.Context, id int64) (*Product, error)
	FilteredCars(ctx context.Context, carType CarType, limit int) ([]Product, error)
	CreateCar(ctx context.Context, draft CarDraft) (*Product, error)
	ListReviews(ctx context.Context, carID int64) ([]Review, error)
	CreateReview(ctx context.Context, carID int64, body string) (*Review, error)
}

// ProfileAPI covers the profile, relation-toggle and activity endpoints.
type ProfileAPI interface {
	OwnProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Profile, error)
	AddRelation(ctx context.Context, rel Relation, carID int64) error
	RemoveRelation(ctx context.Context, rel Relation, carID int64) error
	OwnActivity(ctx context.Context, page int) (*ActivityPage, error)
	StalkProfile(ctx context.Context, id int64) (*Profile, error)
	ProfileActivity(ctx context.Context, id int64, page int) (*ActivityPage, error)
}

// PaymentAPI covers the backend side of checkout.
type PaymentAPI interface {
	CreateIntent(ctx context.Context, items []CartItem) (*PaymentIntent, error)
	VerifyPayment(ctx context.Context, intentID, clientSecret string) (*OrderDetails, error)
}

// PaymentWidget is the hosted card-collection surface. Confirm asks it to
// complete the payment with in-page completion when possible; a non-empty
// RedirectURL in the result means the user must finish off-page and come
// back through the confirmation route.
type PaymentWidget interface {
	Confirm(ctx context.Context, clientSecret string, card CardDetails, addr ShippingAddress, returnURL string) (*ConfirmResult, error)
}
