package httpserver

import (
	"bytes"
	"context"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloce/showroom/internal/domain"
	"github.com/veloce/showroom/internal/usecase"
	"github.com/veloce/showroom/internal/views"
)

type stubPaymentAPI struct {
	order       *domain.OrderDetails
	verifyErr   error
	verifyCalls int
}

func (s *stubPaymentAPI) CreateIntent(ctx context.Context, items []domain.CartItem) (*domain.PaymentIntent, error) {
	return &domain.PaymentIntent{ClientSecret: "pi_1_secret_abc"}, nil
}

func (s *stubPaymentAPI) VerifyPayment(ctx context.Context, intentID, clientSecret string) (*domain.OrderDetails, error) {
	s.verifyCalls++
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.order, nil
}

type stubProfileAPI struct {
	profile  *domain.Profile
	err      error
	activity map[int]*domain.ActivityPage
}

func (s *stubProfileAPI) OwnProfile(ctx context.Context) (*domain.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func (s *stubProfileAPI) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	return s.profile, s.err
}

func (s *stubProfileAPI) AddRelation(ctx context.Context, rel domain.Relation, carID int64) error {
	return s.err
}

func (s *stubProfileAPI) RemoveRelation(ctx context.Context, rel domain.Relation, carID int64) error {
	return s.err
}

func (s *stubProfileAPI) OwnActivity(ctx context.Context, page int) (*domain.ActivityPage, error) {
	if p, ok := s.activity[page]; ok {
		return p, nil
	}
	return &domain.ActivityPage{}, nil
}

func (s *stubProfileAPI) StalkProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	return s.profile, s.err
}

func (s *stubProfileAPI) ProfileActivity(ctx context.Context, id int64, page int) (*domain.ActivityPage, error) {
	return &domain.ActivityPage{}, nil
}

func testTemplates(t *testing.T) *template.Template {
	t.Helper()
	funcMap := template.FuncMap{
		"usd":         func(p string) string { return "$" + p },
		"date":        func(ts string) string { return ts },
		"img":         func(u string) string { return u },
		"actionLabel": func(a domain.ActivityAction) string { return a.Label() },
		"carName":     func(id int64) string { return "Car #" + strconv.FormatInt(id, 10) },
	}
	tmpl, err := template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	require.NoError(t, err)
	return tmpl
}

type stubCatalogAPI struct {
	created  *domain.Product
	gotDraft domain.CarDraft
}

func (s *stubCatalogAPI) ListCars(ctx context.Context) ([]domain.Product, error) { return nil, nil }

func (s *stubCatalogAPI) GetCar(ctx context.Context, id int64) (*domain.Product, error) {
	return nil, &domain.RequestError{Status: 404, Detail: "not found"}
}

func (s *stubCatalogAPI) FilteredCars(ctx context.Context, carType domain.CarType, limit int) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalogAPI) CreateCar(ctx context.Context, draft domain.CarDraft) (*domain.Product, error) {
	s.gotDraft = draft
	return s.created, nil
}

func (s *stubCatalogAPI) ListReviews(ctx context.Context, carID int64) ([]domain.Review, error) {
	return nil, nil
}

func (s *stubCatalogAPI) CreateReview(ctx context.Context, carID int64, body string) (*domain.Review, error) {
	return &domain.Review{Review: body}, nil
}

func newTestServer(t *testing.T, payments domain.PaymentAPI, profiles domain.ProfileAPI, catalog domain.CatalogAPI) http.Handler {
	t.Helper()
	store := usecase.NewStore()
	return New(
		testTemplates(t),
		&usecase.CatalogUC{Catalog: catalog, Store: store},
		&usecase.ProfileUC{Profiles: profiles, Catalog: catalog, Store: store},
		&usecase.ToggleUC{Profiles: profiles, Store: store},
		&usecase.CheckoutUC{Payments: payments},
		store,
	)
}

func TestPaymentConfirmationMissingParams(t *testing.T) {
	payments := &stubPaymentAPI{}
	h := newTestServer(t, payments, &stubProfileAPI{}, &stubCatalogAPI{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment-confirmation", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment Failed")
	assert.Zero(t, payments.verifyCalls)
}

func TestPaymentConfirmationSuccess(t *testing.T) {
	payments := &stubPaymentAPI{order: &domain.OrderDetails{Success: true, OrderID: "ord_9", Amount: 125000}}
	h := newTestServer(t, payments, &stubProfileAPI{}, &stubCatalogAPI{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payment-confirmation?payment_intent=pi_1&payment_intent_client_secret=pi_1_secret_abc", nil)
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment Successful")
	assert.Contains(t, rec.Body.String(), "ord_9")
	assert.Equal(t, 1, payments.verifyCalls)
}

func TestToggleWithoutSessionRedirectsWithNotice(t *testing.T) {
	h := newTestServer(t, &stubPaymentAPI{}, &stubProfileAPI{err: domain.ErrAuthRequired}, &stubCatalogAPI{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/favorites/42/toggle", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cars/42", rec.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)
	assert.NotEmpty(t, flash.Value)
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	writeFlash(rec, Flash{Level: domain.NoticeInfo, Message: "hello"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	f := readFlash(out, req)
	require.NotNil(t, f)
	assert.Equal(t, domain.NoticeInfo, f.Level)
	assert.Equal(t, "hello", f.Message)

	// The pop clears the cookie.
	cleared := false
	for _, c := range out.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestSplitFeatures(t *testing.T) {
	assert.Equal(t, []string{"V12", "Carbon body"}, splitFeatures(" V12 , Carbon body ,, "))
	assert.Nil(t, splitFeatures(""))
}

func TestProfileActivityLoadMore(t *testing.T) {
	next := "http://backend/profiles/activity/?page=2"
	profiles := &stubProfileAPI{
		profile: &domain.Profile{User: 1, Name: "Enzo"},
		activity: map[int]*domain.ActivityPage{
			1: {Count: 2, Next: &next, Results: []domain.ActivityItem{{ID: 1, Product: 1, Action: domain.ActionView}}},
			2: {Count: 2, Results: []domain.ActivityItem{{ID: 2, Product: 2, Action: domain.ActionFavorite}}},
		},
	}
	h := newTestServer(t, &stubPaymentAPI{}, profiles, &stubCatalogAPI{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/cars/1"`)
	assert.NotContains(t, rec.Body.String(), `href="/cars/2"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile/activity", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/profile", rec.Header().Get("Location"))

	// The redirected render keeps page one and shows page two.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/cars/1"`)
	assert.Contains(t, rec.Body.String(), `href="/cars/2"`)
}

func TestCreateCarPostsFullDraft(t *testing.T) {
	catalog := &stubCatalogAPI{created: &domain.Product{ID: 5, Name: "250 GTO"}}
	h := newTestServer(t, &stubPaymentAPI{}, &stubProfileAPI{}, catalog)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"name":           "250 GTO",
		"description":    "Berlinetta",
		"price":          "70000000.00",
		"stock_quantity": "1",
		"car_type":       "classic",
		"engine":         "3.0L V12",
		"power":          "300 hp",
		"torque":         "294 Nm",
		"transmission":   "5-speed manual",
		"key_features":   "Colombo V12, Homologation special",
	}
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/cars/new", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cars/5", rec.Header().Get("Location"))
	assert.Equal(t, "294 Nm", catalog.gotDraft.Torque)
	assert.Equal(t, "5-speed manual", catalog.gotDraft.Transmission)
	assert.Equal(t, []string{"Colombo V12", "Homologation special"}, catalog.gotDraft.KeyFeatures)
}

func TestHeadingFor(t *testing.T) {
	assert.Equal(t, "Classic Cars", headingFor(domain.CarTypeClassic))
	assert.Equal(t, "Electric Cars", headingFor(domain.CarTypeElectrical))
	assert.Equal(t, "Cars", headingFor("spaceship"))
}
