package yahoo_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	yahoo "equityprices/internal/provider/yahoo"
)

func emptyQuoteResponse(t *testing.T) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
		"quoteResponse": map[string]any{"result": []any{}, "error": nil},
	}))
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(buffer),
	}
}

func TestNewYahooAPIClient(t *testing.T) {
	t.Parallel()

	// Assert: no options should still return a client.
	client, err := yahoo.NewYahooAPIClient()
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the custom client must be used exactly once
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return emptyQuoteResponse(t), nil
		}).
		Times(1)

	// Arrange: create a new client with a custom HTTP client.
	client, err := yahoo.NewYahooAPIClient(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuotesV7 with the custom HTTP client.
	quotes, err := client.GetQuotesV7(t.Context(), []string{"AAPL"})
	require.NoError(t, err)
	require.Empty(t, quotes)
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return emptyQuoteResponse(t), nil
		}).
		Times(1)

	// Arrange: create a new client.
	client, err := yahoo.NewYahooAPIClient(yahoo.WithHTTPClient(httpClient), yahoo.WithBaseURL(baseURL))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuotesV7 with the overridden base URL.
	_, err = client.GetQuotesV7(t.Context(), []string{"AAPL"})
	require.NoError(t, err)
}

func TestWithHeaderAndCrumb(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: header and crumb must be forwarded
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "B=session", req.Header.Get("Cookie"))
			require.Equal(t, "abc123", req.URL.Query().Get("crumb"))
			return emptyQuoteResponse(t), nil
		}).
		Times(1)

	// Arrange: create a new client with a cookie header and crumb.
	client, err := yahoo.NewYahooAPIClient(
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithHeader(http.Header{"Cookie": []string{"B=session"}}),
		yahoo.WithCrumb("abc123"),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuotesV7.
	_, err = client.GetQuotesV7(t.Context(), []string{"AAPL"})
	require.NoError(t, err)
}
