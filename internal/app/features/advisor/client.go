// internal/app/features/advisor/client.go
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// maxImageBytes caps advisory image uploads.
const maxImageBytes = 5 << 20 // 5 MiB

// Diagnosis is what the inference service returns: a structured disease
// report, a free-form message, or anything else, in which case the raw
// body is kept for display.
type Diagnosis struct {
	Disease     string   `json:"disease,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
	Description string   `json:"description,omitempty"`
	Treatment   []string `json:"treatment,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// Structured reports whether the diagnosis carries a named disease.
func (d Diagnosis) Structured() bool { return d.Disease != "" }

// Fallback messages shown when the inference service cannot produce a
// diagnosis. No retry is attempted; the caller's timeout is the only
// bound on the request.
const (
	fallbackTimeout     = "The analysis is taking longer than expected. Please try again with a smaller or clearer photo."
	fallbackUnavailable = "The plant disease service is temporarily unavailable. Please try again in a few minutes."
	fallbackGeneric     = "We could not analyze this image. Please try a clearer photo of the affected plant."
)

// Client submits crop photos to the external inference endpoint.
type Client struct {
	InferenceURL string
	HTTPClient   *http.Client
	Log          *zap.Logger
}

func NewClient(inferenceURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		InferenceURL: inferenceURL,
		HTTPClient:   httpClient,
		Log:          logger,
	}
}

// Analyze posts the image as multipart form data (fields user_id and
// file) and decodes the diagnosis. On failure it returns a Diagnosis
// whose Message is a user-facing fallback along with the error, so the
// handler can show something sensible either way.
func (c *Client) Analyze(ctx context.Context, userID, filename string, image io.Reader) (Diagnosis, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("user_id", userID); err != nil {
		return Diagnosis{Message: fallbackGeneric}, err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Diagnosis{Message: fallbackGeneric}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return Diagnosis{Message: fallbackGeneric}, err
	}
	if err := mw.Close(); err != nil {
		return Diagnosis{Message: fallbackGeneric}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.InferenceURL, &buf)
	if err != nil {
		return Diagnosis{Message: fallbackGeneric}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.Log.Warn("inference request timed out", zap.String("user_id", userID))
			return Diagnosis{Message: fallbackTimeout}, err
		}
		c.Log.Error("inference request failed", zap.Error(err))
		return Diagnosis{Message: fallbackUnavailable}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Log.Warn("inference returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("user_id", userID))
		return Diagnosis{Message: fallbackFor(resp.StatusCode)}, fmt.Errorf("inference status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Diagnosis{Message: fallbackUnavailable}, err
	}

	var d Diagnosis
	if err := json.Unmarshal(body, &d); err != nil || (!d.Structured() && d.Message == "") {
		// Unknown shape: echo the raw body rather than drop it.
		return Diagnosis{Message: string(body)}, nil
	}
	return d, nil
}

func fallbackFor(status int) string {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return fallbackUnavailable
	case http.StatusGatewayTimeout:
		return fallbackTimeout
	}
	return fallbackGeneric
}
