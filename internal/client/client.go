// Package client is the typed HTTP client the sign-up workflow drives
// against the backend's JSON endpoints. It implements the workflow's ports.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/signup"
)

// Client talks to the sign-up backend.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckUnique implements signup.UniquenessChecker.
func (c *Client) CheckUnique(ctx context.Context, field domain.UniqueField, value string) (bool, error) {
	resp, err := c.postJSON(ctx, "/check-uniqueness", dto.UniquenessCheckRequest{
		Field: string(field),
		Value: value,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("check-uniqueness: unexpected status %d", resp.StatusCode)
	}
	var out dto.UniquenessCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("check-uniqueness: decode response: %w", err)
	}
	return out.IsUnique, nil
}

// CreateAccount implements signup.AccountCreator. A 409 response becomes a
// *signup.ConflictError carrying the colliding field.
func (c *Client) CreateAccount(ctx context.Context, username, email string, profileImageURL, phone *string) (*dto.UserResponse, error) {
	resp, err := c.postJSON(ctx, "/create-user", dto.CreateUserRequest{
		Username:        username,
		Email:           email,
		ProfileImageURL: profileImageURL,
		Phone:           phone,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var out struct {
			User *dto.UserResponse `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("create-user: decode response: %w", err)
		}
		return out.User, nil
	case http.StatusConflict:
		var out struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		field := domain.UniqueField(out.Field)
		if !field.Valid() {
			field = domain.FieldUsername
		}
		return nil, &signup.ConflictError{Field: field}
	default:
		return nil, fmt.Errorf("create-user: %s", readErrorMessage(resp))
	}
}

// UploadImage implements signup.AssetUploader.
func (c *Client) UploadImage(ctx context.Context, ownerKey string, data []byte, mimeType string) (string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("userId", ownerKey); err != nil {
		return "", err
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="profileImage"; filename="profile"`)
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-profile", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload-profile: %s", readErrorMessage(resp))
	}
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload-profile: decode response: %w", err)
	}
	return out.ImageURL, nil
}

// Track implements signup.EventTracker.
func (c *Client) Track(ctx context.Context, eventType, page, element string) error {
	resp, err := c.postJSON(ctx, "/track-event", dto.TrackEventRequest{
		EventType: eventType,
		Page:      page,
		Element:   element,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("track-event: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// readErrorMessage pulls a human-readable message out of an error response,
// falling back to the status code.
func readErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	var envelope struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		switch v := envelope.Error.(type) {
		case string:
			return v
		case map[string]any:
			if msg, ok := v["message"].(string); ok {
				return msg
			}
		}
	}
	return fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
