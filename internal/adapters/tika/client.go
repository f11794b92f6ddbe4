// Package tika extracts plain text from binary documents via an Apache
// Tika server. PDF parsing stays outside this service; the pipeline only
// sees linearized text.
package tika

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// Extract streams the document to PUT /tika and returns the extracted text.
func (c *Client) Extract(ctx context.Context, r io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", r)
	if err != nil {
		return "", fmt.Errorf("building extraction request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("document is unparsable")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction failed: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading extraction response: %w", err)
	}
	return string(body), nil
}
