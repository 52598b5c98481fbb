// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package resolver provides sources for external references.
// The Resolve methods can be passed to external.Expand.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Map resolves uris from documents held in memory.
type Map map[string]string

func (m Map) Resolve(_ context.Context, uri string) (string, error) {
	text, ok := m[uri]
	if !ok {
		return "", fmt.Errorf("document %s not found", uri)
	}

	return text, nil
}

// HTTP fetches documents over http. doenet: references are looked up below a base url,
// http and https urls are fetched as they are.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the location a uri is fetched from.
func (h *HTTP) URL(uri string) (string, error) {
	switch {
	case strings.HasPrefix(uri, "doenet:"):
		if h.baseURL == "" {
			return "", fmt.Errorf("cannot resolve %s: no base url configured", uri)
		}

		return h.baseURL + "/" + url.PathEscape(strings.TrimPrefix(uri, "doenet:")), nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri, nil
	default:
		return "", fmt.Errorf("cannot resolve %s: unsupported scheme", uri)
	}
}

func (h *HTTP) Resolve(ctx context.Context, uri string) (string, error) {
	u, err := h.URL(uri)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("get %s: status %d: %s", uri, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", uri, err)
	}

	return string(body), nil
}
