package showroomapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/veloce/showroom/internal/domain"
)

func (c *Client) OwnProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.getJSON(ctx, "/profiles/", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile always goes multipart; the backend accepts the form fields
// with or without a picture part attached.
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	fields := map[string]string{}
	setIf := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setIf("name", upd.Name)
	setIf("location", upd.Location)
	setIf("contact_info", upd.ContactInfo)
	setIf("bio", upd.Bio)

	var files map[string]*domain.FileUpload
	if upd.Picture != nil {
		files = map[string]*domain.FileUpload{"profile_picture": upd.Picture}
	}

	var p domain.Profile
	if err := c.sendMultipart(ctx, http.MethodPatch, "/profiles/", fields, files, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddRelation(ctx context.Context, rel domain.Relation, carID int64) error {
	return c.patchRelation(ctx, rel, "add", carID)
}

func (c *Client) RemoveRelation(ctx context.Context, rel domain.Relation, carID int64) error {
	return c.patchRelation(ctx, rel, "remove", carID)
}

func (c *Client) patchRelation(ctx context.Context, rel domain.Relation, op string, carID int64) error {
	path := fmt.Sprintf("/profiles/%s/%s/%d/", rel, op, carID)
	payload := map[string]int64{"car_id": carID}
	return c.sendJSON(ctx, http.MethodPatch, path, payload, nil)
}

func (c *Client) OwnActivity(ctx context.Context, page int) (*domain.ActivityPage, error) {
	var ap domain.ActivityPage
	if err := c.getJSON(ctx, fmt.Sprintf("/profiles/activity/?page=%d", page), &ap); err != nil {
		return nil, err
	}
	return &ap, nil
}

func (c *Client) StalkProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.getJSON(ctx, fmt.Sprintf("/profiles/stalk/%d/", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ProfileActivity(ctx context.Context, id int64, page int) (*domain.ActivityPage, error) {
	var ap domain.ActivityPage
	if err := c.getJSON(ctx, fmt.Sprintf("/profiles/%d/activity/?page=%d", id, page), &ap); err != nil {
		return nil, err
	}
	return &ap, nil
}
