package showroomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/veloce/showroom/internal/domain"
)

// Client talks to the showroom backend. Every call fetches a fresh bearer
// token, issues exactly one request and never retries; non-2xx answers come
// back as *domain.RequestError for the caller to handle at the UI level.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     domain.TokenProvider
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func New(baseURL string, tokens domain.TokenProvider) *Client {
	var st gobreaker.Settings
	st.Name = "showroom-api"
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

// do issues one authenticated request. contentType is empty for GET/PATCH
// without a body; multipart callers pass the writer's generated value so the
// boundary survives intact.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	payload, err := c.breaker.Execute(func() ([]byte, error) {
		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("showroom api unreachable: %w", err)
		}
		defer res.Body.Close()
		raw, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if res.StatusCode >= 300 {
			return nil, newRequestError(res.StatusCode, raw)
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn().Str("path", path).Msg("circuit open, failing fast")
			return &domain.RequestError{Status: http.StatusServiceUnavailable, Detail: "showroom api unavailable"}
		}
		return err
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	return c.sendJSONWithHeaders(ctx, method, path, in, out, nil)
}

func (c *Client) sendJSONWithHeaders(ctx context.Context, method, path string, in, out any, headers map[string]string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, body, "application/json", headers, out)
}

// sendMultipart writes fields and optional files into one multipart body.
// The content type comes from the writer so the boundary is generated
// correctly by the transport layer.
func (c *Client) sendMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]*domain.FileUpload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	for field, f := range files {
		if f == nil {
			continue
		}
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("copy upload %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, method, path, &buf, w.FormDataContentType(), nil, out)
}

// newRequestError keeps the server message when the error body is the usual
// {"detail": ...} or {"message": ...} JSON; otherwise the raw body stands in.
func newRequestError(status int, raw []byte) *domain.RequestError {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Detail != "":
			detail = payload.Detail
		case payload.Message != "":
			detail = payload.Message
		case payload.Error != "":
			detail = payload.Error
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
		if len(detail) > 200 {
			detail = detail[:200]
		}
	}
	return &domain.RequestError{Status: status, Detail: detail}
}
