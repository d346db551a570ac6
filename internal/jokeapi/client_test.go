package jokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_FetchDecodesJoke(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"type":"general","setup":"Why couldn't the kid go to see the pirate movie?","punchline":"Because it was rated arrrrr!","id":310}`))
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL)
	j, err := c.Fetch(testContext(t))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if j.ID != 310 || j.Category != "general" {
		t.Fatalf("Fetch = %#v, want id 310 category general", j)
	}
	if j.PunchlineText() != "Because it was rated arrrrr!" {
		t.Fatalf("punchline = %q", j.PunchlineText())
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_FetchOptionalFieldsMayBeAbsent(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusOK, `{"id":5,"type":"knock-knock","extra":true}`)
	c := NewClient(server.URL)

	j, err := c.Fetch(testContext(t))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if j.Setup != nil || j.Punchline != nil {
		t.Fatalf("setup/punchline = %v/%v, want nil", j.Setup, j.Punchline)
	}
	if j.CombinedText() != "" {
		t.Fatalf("CombinedText = %q, want empty", j.CombinedText())
	}
}

func TestClient_FetchDecodeFailures(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"missing id":      `{"type":"general","setup":"a","punchline":"b"}`,
		"missing type":    `{"id":1,"setup":"a","punchline":"b"}`,
		"id wrong type":   `{"id":"1","type":"general"}`,
		"type wrong type": `{"id":1,"type":7}`,
		"not json":        `<html>oops</html>`,
		"array":           `[{"id":1,"type":"general"}]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server, _ := newTestServer(t, http.StatusOK, body)
			c := NewClient(server.URL)

			_, err := c.Fetch(testContext(t))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Fetch error = %v, want ErrDecode", err)
			}
			var fe *FetchError
			if !errors.As(err, &fe) || fe.KindName() != "decode" {
				t.Fatalf("Fetch error = %#v, want *FetchError with decode kind", err)
			}
		})
	}
}

func TestClient_FetchNonSuccessStatusIsTransport(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusServiceUnavailable, `{"id":1,"type":"general"}`)
	c := NewClient(server.URL)

	_, err := c.Fetch(testContext(t))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Fetch error = %v, want ErrTransport", err)
	}
}

func TestClient_FetchUnreachableIsTransport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(url)
	_, err := c.Fetch(testContext(t))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Fetch error = %v, want ErrTransport", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("FetchError should carry the underlying cause")
	}
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("unexpected request")
}

func TestClient_FetchInvalidEndpointMakesNoRequest(t *testing.T) {
	t.Parallel()

	for _, endpoint := range []string{"ftp://example.com/joke", "http://", "::not a url", "example.com/random_joke"} {
		rt := &countingTransport{}
		c := NewClient(endpoint, WithHTTPClient(&http.Client{Transport: rt}))
		_, err := c.Fetch(testContext(t))
		if !errors.Is(err, ErrInvalidEndpoint) {
			t.Fatalf("Fetch(%q) error = %v, want ErrInvalidEndpoint", endpoint, err)
		}
		if n := rt.calls.Load(); n != 0 {
			t.Fatalf("Fetch(%q) made %d requests, want 0", endpoint, n)
		}
	}
}

func TestClient_FetchHonoursCancellation(t *testing.T) {
	t.Parallel()

	server, hits := newTestServer(t, http.StatusOK, `{"id":1,"type":"general"}`)
	c := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch error = %v, want transport wrapping context.Canceled", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("server saw %d requests, want 0", hits.Load())
	}
}

func TestNewClient_DefaultsEndpoint(t *testing.T) {
	c := NewClient("   ", WithUserAgent("custom/1"))
	if c.Endpoint() != DefaultEndpoint {
		t.Fatalf("Endpoint = %q, want %q", c.Endpoint(), DefaultEndpoint)
	}
	if c.userAgent != "custom/1" {
		t.Fatalf("userAgent = %q, want custom/1", c.userAgent)
	}
}

func TestClient_FetchOversizedBodyIsTransport(t *testing.T) {
	t.Parallel()

	padding := strings.Repeat(" ", maxBodyBytes)
	server, _ := newTestServer(t, http.StatusOK, `{"id":1,"type":"general",`+padding+`"setup":"a"}`)
	c := NewClient(server.URL)

	_, err := c.Fetch(testContext(t))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Fetch error = %v, want ErrTransport", err)
	}
	if errors.Is(err, ErrDecode) || !strings.Contains(err.Error(), "response too large") {
		t.Fatalf("Fetch error = %v, want response too large", err)
	}
}

func TestClient_FetchBodyAtLimitDecodes(t *testing.T) {
	t.Parallel()

	payload := `{"id":1,"type":"general"}`
	body := payload + strings.Repeat(" ", maxBodyBytes-len(payload))
	server, _ := newTestServer(t, http.StatusOK, body)
	c := NewClient(server.URL)

	j, err := c.Fetch(testContext(t))
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if j.ID != 1 {
		t.Fatalf("ID = %d, want 1", j.ID)
	}
}
