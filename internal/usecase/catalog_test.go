package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloce/showroom/internal/domain"
)

type fakeCatalogAPI struct {
	cars        []domain.Product
	created     *domain.Product
	createCalls int
}

func (f *fakeCatalogAPI) ListCars(ctx context.Context) ([]domain.Product, error) {
	return f.cars, nil
}

func (f *fakeCatalogAPI) GetCar(ctx context.Context, id int64) (*domain.Product, error) {
	for _, c := range f.cars {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.RequestError{Status: 404, Detail: "not found"}
}

func (f *fakeCatalogAPI) FilteredCars(ctx context.Context, carType domain.CarType, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, c := range f.cars {
		if c.CarType == carType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalogAPI) CreateCar(ctx context.Context, draft domain.CarDraft) (*domain.Product, error) {
	f.createCalls++
	return f.created, nil
}

func (f *fakeCatalogAPI) ListReviews(ctx context.Context, carID int64) ([]domain.Review, error) {
	return nil, nil
}

func (f *fakeCatalogAPI) CreateReview(ctx context.Context, carID int64, body string) (*domain.Review, error) {
	return &domain.Review{Review: body}, nil
}

func TestCatalogListHydratesStore(t *testing.T) {
	store := NewStore()
	uc := &CatalogUC{
		Catalog: &fakeCatalogAPI{cars: []domain.Product{{ID: 1, Name: "Miura"}, {ID: 2, Name: "Stratos"}}},
		Store:   store,
	}

	cars, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cars, 2)

	cached, ok := store.Product(2)
	assert.True(t, ok)
	assert.Equal(t, "Stratos", cached.Name)
}

func TestCatalogFilteredRejectsUnknownType(t *testing.T) {
	uc := &CatalogUC{Catalog: &fakeCatalogAPI{}, Store: NewStore()}
	_, err := uc.Filtered(context.Background(), "spaceship", 10)
	assert.True(t, domain.IsValidation(err))
}

func TestCatalogCreateValidation(t *testing.T) {
	api := &fakeCatalogAPI{created: &domain.Product{ID: 5, Name: "250 GTO"}}
	uc := &CatalogUC{Catalog: api, Store: NewStore()}

	cases := []struct {
		name  string
		draft domain.CarDraft
		field string
	}{
		{"missing name", domain.CarDraft{Price: "100", CarType: domain.CarTypeClassic}, "name"},
		{"bad price", domain.CarDraft{Name: "X", Price: "lots", CarType: domain.CarTypeClassic}, "price"},
		{"negative price", domain.CarDraft{Name: "X", Price: "-5", CarType: domain.CarTypeClassic}, "price"},
		{"negative stock", domain.CarDraft{Name: "X", Price: "5", StockQuantity: -1, CarType: domain.CarTypeClassic}, "stock_quantity"},
		{"bad type", domain.CarDraft{Name: "X", Price: "5", CarType: "spaceship"}, "car_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.draft)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
	// None of the rejected drafts reached the backend.
	assert.Zero(t, api.createCalls)

	car, err := uc.Create(context.Background(), domain.CarDraft{Name: "250 GTO", Price: "70000000.00", CarType: domain.CarTypeClassic})
	require.NoError(t, err)
	assert.Equal(t, int64(5), car.ID)
	assert.Equal(t, 1, api.createCalls)
}

func TestSubmitReviewRequiresBody(t *testing.T) {
	uc := &CatalogUC{Catalog: &fakeCatalogAPI{}, Store: NewStore()}
	_, err := uc.SubmitReview(context.Background(), 1, "   ")
	assert.True(t, domain.IsValidation(err))

	review, err := uc.SubmitReview(context.Background(), 1, "great car")
	require.NoError(t, err)
	assert.Equal(t, "great car", review.Review)
}

func TestCarsByIDsFiltersFullListing(t *testing.T) {
	store := NewStore()
	uc := &ProfileUC{
		Profiles: &fakeProfileAPI{},
		Catalog:  &fakeCatalogAPI{cars: []domain.Product{{ID: 1}, {ID: 2}, {ID: 3}}},
		Store:    store,
	}

	got, err := uc.CarsByIDs(context.Background(), []int64{3, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	empty, err := uc.CarsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
