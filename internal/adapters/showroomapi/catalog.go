package showroomapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/veloce/showroom/internal/domain"
)

func (c *Client) ListCars(ctx context.Context) ([]domain.Product, error) {
	var cars []domain.Product
	if err := c.getJSON(ctx, "/api/", &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *Client) GetCar(ctx context.Context, id int64) (*domain.Product, error) {
	var car domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/%d/", id), &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) FilteredCars(ctx context.Context, carType domain.CarType, limit int) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("car_type", string(carType))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var cars []domain.Product
	if err := c.getJSON(ctx, "/api/filtered/?"+q.Encode(), &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// CreateCar goes multipart when an image is attached and plain JSON
// otherwise, matching what the backend's create endpoint accepts.
func (c *Client) CreateCar(ctx context.Context, draft domain.CarDraft) (*domain.Product, error) {
	var car domain.Product

	if draft.Image != nil {
		fields := map[string]string{
			"name":           draft.Name,
			"description":    draft.Description,
			"price":          draft.Price,
			"stock_quantity": strconv.Itoa(draft.StockQuantity),
			"car_type":       string(draft.CarType),
			"engine":         draft.Engine,
			"power":          draft.Power,
			"torque":         draft.Torque,
			"transmission":   draft.Transmission,
		}
		if len(draft.KeyFeatures) > 0 {
			fields["key_features"] = strings.Join(draft.KeyFeatures, ",")
		}
		files := map[string]*domain.FileUpload{"image": draft.Image}
		if err := c.sendMultipart(ctx, http.MethodPost, "/api/", fields, files, &car); err != nil {
			return nil, err
		}
		return &car, nil
	}

	payload := map[string]any{
		"name":           draft.Name,
		"description":    draft.Description,
		"price":          draft.Price,
		"stock_quantity": draft.StockQuantity,
		"car_type":       draft.CarType,
		"key_features":   draft.KeyFeatures,
		"engine":         draft.Engine,
		"power":          draft.Power,
		"torque":         draft.Torque,
		"transmission":   draft.Transmission,
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/", payload, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) ListReviews(ctx context.Context, carID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.getJSON(ctx, fmt.Sprintf("/api/%d/reviews/", carID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, carID int64, body string) (*domain.Review, error) {
	payload := map[string]string{"review": body}
	var review domain.Review
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/api/%d/reviews/create/", carID), payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
