package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"video_ingest_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(secret []byte) *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware(secret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(TokenClientID).(string))
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	secret := []byte("mw-secret")
	signed, _, err := token.GenerateJWT(secret, "uploader", "", "test", time.Minute)
	require.NoError(t, err)

	app := newTestApp(secret)

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("query token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?auth="+signed, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bad signature", func(t *testing.T) {
		other, _, err := token.GenerateJWT([]byte("other"), "uploader", "", "test", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
