package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxAvatarSize is the upload limit for avatar images.
const MaxAvatarSize = 5 << 20 // 5 MB

var (
	// ErrAvatarNotImage is returned when the file content is not an image.
	ErrAvatarNotImage = errors.New("avatar file must be an image")

	// ErrAvatarTooLarge is returned when the file exceeds MaxAvatarSize.
	ErrAvatarTooLarge = errors.New("avatar file exceeds 5MB limit")
)

// avatarResponse is the upload endpoint's response.
type avatarResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// UploadAvatar uploads a single image file and returns the hosted URL.
// The content is sniffed client-side and must be an image no larger than
// MaxAvatarSize; validation failures abort before any request is made.
func (c *Client) UploadAvatar(ctx context.Context, filename string, data []byte, accessToken string) (string, error) {
	if len(data) > MaxAvatarSize {
		return "", ErrAvatarTooLarge
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrAvatarNotImage, contentType)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/upload-avatar", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}

	var payload avatarResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return payload.URL, nil
}
