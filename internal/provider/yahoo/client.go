package yahoo

import (
	"net/http"
	"net/url"
)

// baseURL is the default Yahoo Finance query host.
const baseURL = "https://query1.finance.yahoo.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// YahooAPIClient is a client for the Yahoo Finance quote API.
type YahooAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// YahooAPIClientOption is a configuration option for the Yahoo API client.
type YahooAPIClientOption func(*YahooAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) YahooAPIClientOption {
	return func(c *YahooAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) YahooAPIClientOption {
	return func(c *YahooAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) YahooAPIClientOption {
	return func(c *YahooAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithCrumb sets the crumb query parameter Yahoo requires alongside a
// session cookie.
func WithCrumb(crumb string) YahooAPIClientOption {
	return func(c *YahooAPIClient) {
		if crumb != "" {
			c.query.Set("crumb", crumb)
		}
	}
}

// NewYahooAPIClient creates a new Yahoo API client.
func NewYahooAPIClient(options ...YahooAPIClientOption) (*YahooAPIClient, error) {
	var yahooAPIClient = &YahooAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	for _, option := range options {
		option(yahooAPIClient)
	}
	return yahooAPIClient, nil
}
