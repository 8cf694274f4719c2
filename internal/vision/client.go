package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
)

const analyzePrompt = "Identify this cosmetics or pharmacy product. Reply with a one-sentence " +
	"description on the first line and up to five comma-separated search keywords on the second line."

// Analysis is what the hosted model extracted from a product photo.
type Analysis struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Analyzer is the model surface the search service depends on.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error)
}

// Client calls the hosted vision model. Transient gateway trouble (429, 500,
// 503, timeouts) is retried with exponential backoff, three attempts total.
type Client struct {
	cfg        config.VisionConfig
	httpClient *http.Client
}

// NewClient builds a Client with a bounded-timeout HTTP client.
func NewClient(cfg config.VisionConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision api key required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("vision base url required")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type statusError struct {
	status int
}

func (e statusError) Error() string {
	return fmt.Sprintf("vision model returned status %d", e.status)
}

// Analyze sends the image to the model and parses its two-line reply.
func (c *Client) Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))

	var analysis *Analysis
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := c.analyzeOnce(ctx, image, mimeType)
		if err != nil {
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		analysis = result
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "analyze image")
	}
	return analysis, nil
}

func (c *Client) analyzeOnce(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	payload := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: analyzePrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError{status: resp.StatusCode}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("vision model returned no candidates")
	}
	return parseReply(decoded.Candidates[0].Content.Parts[0].Text), nil
}

// parseReply splits the model's reply into description and keywords. Models
// drift on formatting, so missing lines degrade to what was given.
func parseReply(text string) *Analysis {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)
	analysis := &Analysis{Description: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		for _, raw := range strings.Split(lines[1], ",") {
			keyword := strings.TrimSpace(raw)
			if keyword != "" {
				analysis.Keywords = append(analysis.Keywords, keyword)
			}
		}
	}
	return analysis
}

func isRetryable(err error) bool {
	var status statusError
	if errors.As(err, &status) {
		return status.status == http.StatusTooManyRequests ||
			status.status == http.StatusInternalServerError ||
			status.status == http.StatusServiceUnavailable
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
