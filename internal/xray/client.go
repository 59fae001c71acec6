// Package xray talks to the Xray summary API and inspects its responses.
package xray

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/scan-io-git/xray-worker/internal/httpclient"
)

// SummaryArtifactEndpoint returns the scan summary for a list of artifact paths.
const SummaryArtifactEndpoint = "/xray/api/v1/summary/artifact"

// SummaryRequest is the body of a summary call.
type SummaryRequest struct {
	Paths []string `json:"paths"`
}

// Client queries the Xray API through the platform transport.
type Client struct {
	transport   httpclient.Transport
	baseURL     string
	accessToken string
}

// New creates a Client. An empty baseURL leaves request URLs relative to the transport.
func New(transport httpclient.Transport, baseURL, accessToken string) *Client {
	return &Client{
		transport:   transport,
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

// resolveURL constructs the full URL by checking if the path is absolute or relative.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

// Summary fetches the raw scan summary for a single "<repo>/<path>" artifact.
// The decoded value is returned untouched so it can be forwarded as is.
func (c *Client) Summary(ctx context.Context, artifactPath string) (interface{}, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.accessToken != "" {
		headers["Authorization"] = "Bearer " + c.accessToken
	}

	resp, err := c.transport.Send(ctx, &httpclient.Request{
		Op:      "xray summary",
		Method:  http.MethodPost,
		URL:     c.resolveURL(SummaryArtifactEndpoint),
		Headers: headers,
		Body:    SummaryRequest{Paths: []string{artifactPath}},
	})
	if err != nil {
		return nil, err
	}

	summary, err := decodeSummary(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode summary for %q: %w", artifactPath, err)
	}
	return summary, nil
}

// decodeSummary keeps numbers as json.Number so the summary survives re-encoding unchanged.
func decodeSummary(body []byte) (interface{}, error) {
	var summary interface{}
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()
	if err := d.Decode(&summary); err != nil {
		return nil, err
	}
	return summary, nil
}
