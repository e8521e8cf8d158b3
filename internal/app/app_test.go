package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	u "hellopage/internal/utils"
)

func testConfig(origin string) u.Config {
	cfg := u.DefaultConfig()
	cfg.Backend.Origin = origin
	cfg.Backend.Timeout = time.Second
	cfg.Logger.File = ""
	return cfg
}

func newBackend(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHelloPage_RendersBackendMessage(t *testing.T) {
	srv := newBackend(t, "Hello, World!", nil)
	app := SetupApp(testConfig(srv.URL), nil)

	resp, body := get(t, app, "/hello")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "Message from Flask", doc.Find("main h1").Text())
	assert.Equal(t, "Hello, World!", doc.Find("main p").Text())
}

func TestHelloPage_EmptyBody(t *testing.T) {
	srv := newBackend(t, "", nil)
	app := SetupApp(testConfig(srv.URL), nil)

	resp, body := get(t, app, "/hello")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	p := doc.Find("main p")
	assert.Equal(t, 1, p.Length())
	assert.Empty(t, p.Text())
}

func TestHelloPage_BackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin := srv.URL
	srv.Close()

	app := SetupApp(testConfig(origin), nil)

	resp, body := get(t, app, "/hello")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "The backend is unavailable.")
	assert.Contains(t, body, resp.Header.Get("X-Request-Id"))
}

func TestHelloPage_FetchesOncePerRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newBackend(t, "hi", &hits)
	app := SetupApp(testConfig(srv.URL), nil)

	for i := 0; i < 3; i++ {
		resp, _ := get(t, app, "/hello")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestRootRedirectsToHello(t *testing.T) {
	app := SetupApp(testConfig("http://127.0.0.1:1"), nil)

	resp, _ := get(t, app, "/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/hello", resp.Header.Get("Location"))
}

func TestUnknownRoute_JSON404(t *testing.T) {
	app := SetupApp(testConfig("http://127.0.0.1:1"), nil)

	resp, body := get(t, app, "/does-not-exist")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, fiber.StatusNotFound, payload.Error.Code)
	assert.Equal(t, "Not Found", payload.Error.Message)
}

func TestHealthcheck(t *testing.T) {
	app := SetupApp(testConfig("http://127.0.0.1:1"), nil)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, _ := get(t, app, path)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestStats_RedisCountsRendersAndFailures(t *testing.T) {
	mrs, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mrs.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mrs.Addr()})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin := srv.URL
	srv.Close()

	app := SetupApp(testConfig(origin), rdb)
	get(t, app, "/hello")
	get(t, app, "/hello")

	resp, body := get(t, app, "/v1/stats")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var s struct {
		Renders  int64  `json:"renders"`
		Failures int64  `json:"failures"`
		Backend  string `json:"backend"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.Equal(t, int64(2), s.Renders)
	assert.Equal(t, int64(2), s.Failures)
	assert.Equal(t, "redis", s.Backend)
}
