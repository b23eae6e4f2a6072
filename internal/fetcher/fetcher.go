package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher builds http requests and fetches listing pages via http.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
}

// NewFetcher returns new Fetcher.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		client:         client,
		userAgent:      userAgent,
		acceptLanguage: "en-US,en;q=0.9",
	}
}

// FetchPage returns the HTML body of the listing page at url or an error.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "text/html")
	req.Header.Add("Accept-Language", f.acceptLanguage)
	req.Header.Add("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("can't get http response: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrStatusNotOK
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("can't read response body: %w", err)
	}

	return string(body), nil
}
