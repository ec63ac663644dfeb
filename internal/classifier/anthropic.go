package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pbaille/jobtrack/internal/fetcher"
)

const anthropicAPI = "https://api.anthropic.com"

// maxPromptText bounds how much page text is sent with a listing
const maxPromptText = 6000

// Listing holds the role and employer read from a job listing page
type Listing struct {
	RoleTitle   string `json:"roleTitle"`
	CompanyName string `json:"companyName"`
}

// Classifier extracts listing details via the Anthropic API
type Classifier struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a new Classifier. ANTHROPIC_BASE_URL overrides the API host.
func New() (*Classifier, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	base := os.Getenv("ANTHROPIC_BASE_URL")
	if base == "" {
		base = anthropicAPI
	}

	return &Classifier{
		apiKey:   apiKey,
		model:    "claude-sonnet-4-20250514",
		endpoint: strings.TrimSuffix(base, "/") + "/v1/messages",
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ClassifyListing asks the model for the role title and hiring company of
// a fetched listing page.
func (c *Classifier) ClassifyListing(ctx context.Context, page *fetcher.Page) (*Listing, error) {
	prompt := buildPrompt(page)

	resp, err := c.callAPI(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(resp)
}

func buildPrompt(page *fetcher.Page) string {
	var sb strings.Builder

	sb.WriteString("Extract the job being advertised on this listing page. Return JSON only.\n\n")
	sb.WriteString("Page title: ")
	sb.WriteString(page.Title)
	sb.WriteString("\n")
	if page.SiteName != "" {
		sb.WriteString("Site name: ")
		sb.WriteString(page.SiteName)
		sb.WriteString("\n")
	}
	sb.WriteString("\nPage text:\n")
	text := []rune(page.Text)
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}
	sb.WriteString(string(text))
	sb.WriteString("\n\n")

	sb.WriteString(`Return a JSON object with this structure:
{"roleTitle": "Senior Backend Engineer", "companyName": "Acme"}

Rules:
- companyName is the hiring employer, never the job board hosting the page (Greenhouse, Lever, LinkedIn, Indeed...)
- roleTitle is the position name only, without company, location or board suffixes
- Use an empty string when a value cannot be determined

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Classifier) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 256,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Content[0].Text, nil
}

func parseResponse(resp string) (*Listing, error) {
	// Models sometimes wrap the JSON in a markdown fence
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var result Listing
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}
	result.RoleTitle = strings.TrimSpace(result.RoleTitle)
	result.CompanyName = strings.TrimSpace(result.CompanyName)

	return &result, nil
}
