package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_Do_DefaultHeaders(t *testing.T) {
	var gotUA, gotCookie, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(time.Second, WithHeader("Cookie", "B=abc"), WithHeader("Accept", "application/json"), WithHeader("X-Empty", ""))
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	res, err := c.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, DefaultUserAgent, gotUA)
	require.Equal(t, "B=abc", gotCookie)
	// request headers win over defaults
	require.Equal(t, "text/plain", gotAccept)
	require.NotContains(t, c.Headers, "X-Empty")
}

func TestWithUserAgent(t *testing.T) {
	require.Equal(t, "custom/2.0", New(time.Second, WithUserAgent("custom/2.0")).UserAgent)
	require.Equal(t, DefaultUserAgent, New(time.Second, WithUserAgent("")).UserAgent)
}
