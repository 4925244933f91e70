package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/veloce/showroom/internal/domain"
)

type CatalogUC struct {
	Catalog domain.CatalogAPI
	Store   *Store
}

func (uc *CatalogUC) List(ctx context.Context) ([]domain.Product, error) {
	cars, err := uc.Catalog.ListCars(ctx)
	if err != nil {
		return nil, err
	}
	uc.Store.PutProducts(cars...)
	return cars, nil
}

func (uc *CatalogUC) Get(ctx context.Context, id int64) (*domain.Product, error) {
	car, err := uc.Catalog.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.Store.PutProducts(*car)
	return car, nil
}

func (uc *CatalogUC) Filtered(ctx context.Context, carType domain.CarType, limit int) ([]domain.Product, error) {
	if !carType.Valid() {
		return nil, &domain.ValidationError{Field: "car_type", Reason: "unknown car type"}
	}
	cars, err := uc.Catalog.FilteredCars(ctx, carType, limit)
	if err != nil {
		return nil, err
	}
	uc.Store.PutProducts(cars...)
	return cars, nil
}

// Create validates the draft before anything touches the network; a
// rejected draft never leaves the form.
func (uc *CatalogUC) Create(ctx context.Context, draft domain.CarDraft) (*domain.Product, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: "price", Reason: "must be a decimal number"}
	}
	if price < 0 {
		return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if draft.StockQuantity < 0 {
		return nil, &domain.ValidationError{Field: "stock_quantity", Reason: "must not be negative"}
	}
	if !draft.CarType.Valid() {
		return nil, &domain.ValidationError{Field: "car_type", Reason: "unknown car type"}
	}

	car, err := uc.Catalog.CreateCar(ctx, draft)
	if err != nil {
		return nil, err
	}
	uc.Store.PutProducts(*car)
	return car, nil
}

func (uc *CatalogUC) Reviews(ctx context.Context, carID int64) ([]domain.Review, error) {
	return uc.Catalog.ListReviews(ctx, carID)
}

func (uc *CatalogUC) SubmitReview(ctx context.Context, carID int64, body string) (*domain.Review, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &domain.ValidationError{Field: "review", Reason: "required"}
	}
	return uc.Catalog.CreateReview(ctx, carID, body)
}
