package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/stretchr/testify/require"

	"buzzboard/internal/config"
	"buzzboard/internal/store"
	"buzzboard/internal/suggest"
)

// envelope mirrors the jsonSuccess / jsonError response shape.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func newAPITestApp(t *testing.T, s store.Store) *fiber.App {
	t.Helper()

	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{})
	app.Use(sessionMiddleware)

	cfg := &config.Config{SuggestLimit: 8}
	suggestions := suggest.NewProvider(s)

	seriesHandler := NewSeriesHandler(s)
	suggestHandler := NewSuggestHandler(suggestions, cfg)
	walletHandler := NewWalletHandler(s)
	pointsHandler := NewPointsHandler(s)

	app.Get("/api/series/:keyword", seriesHandler.Get)
	app.Get("/api/suggest", suggestHandler.Suggest)
	app.Post("/api/wallet/connect", walletHandler.Connect)
	app.Post("/api/wallet/disconnect", walletHandler.Disconnect)
	app.Get("/api/points", pointsHandler.Points)

	return app
}

func apiGet(t *testing.T, app *fiber.App, path string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req, _ := http.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func apiPost(t *testing.T, app *fiber.App, path, payload string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	req, _ := http.NewRequest("POST", path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}
