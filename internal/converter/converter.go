package converter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// Converter turns a raw source document into plain text ready for chunking.
type Converter interface {
	// Convert reads the document's raw bytes and returns its plain text.
	Convert(ctx context.Context, name string, r io.Reader) (string, error)
}

// DocConverter converts documents to text. Markdown and plain text are
// handled locally; PDFs are sent to an external document-parsing service
// that returns markdown.
type DocConverter struct {
	BaseURL string
	client  *http.Client
}

// NewDocConverter creates a converter. baseURL points at the parsing service
// and may be empty when only markdown/plain-text sources are ingested.
func NewDocConverter(baseURL string) *DocConverter {
	return &DocConverter{
		BaseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// ConvertRequest represents the request payload for the parsing service.
type ConvertRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"` // base64-encoded raw bytes
}

// ConvertResponse represents the response from the parsing service.
type ConvertResponse struct {
	Markdown string `json:"markdown"`
}

// Convert dispatches on the file extension.
func (c *DocConverter) Convert(ctx context.Context, name string, r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".txt":
		return string(raw), nil
	case ".md", ".markdown":
		return markdownToPlain(raw), nil
	case ".pdf":
		markdown, err := c.convertPDF(ctx, name, raw)
		if err != nil {
			return "", err
		}
		return markdownToPlain([]byte(markdown)), nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", ext)
	}
}

// convertPDF sends the document to the parsing service and returns the
// markdown it produced.
func (c *DocConverter) convertPDF(ctx context.Context, name string, raw []byte) (string, error) {
	if c.BaseURL == "" {
		return "", fmt.Errorf("no document parsing service configured for %s", name)
	}

	url := fmt.Sprintf("%s/v1/convert", c.BaseURL)

	payload := ConvertRequest{
		FileName: name,
		Content:  base64.StdEncoding.EncodeToString(raw),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("conversion failed for %s with status %d: %s", name, resp.StatusCode, string(errBody))
	}

	var convResp ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&convResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return convResp.Markdown, nil
}
