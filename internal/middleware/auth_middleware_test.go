package middleware

import (
	"net/http/httptest"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("", RequireAuth())
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserName(c))
	})
	protected.Get("/kitchen", RequireRole(model.RoleChef, model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})
	return app
}

func tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	token, err := jwt.GenerateToken(1, string(role), "Staff "+string(role), string(role))
	require.NoError(t, err)
	return token
}

func status(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	jwt.SetSecretKey("test-secret")
	app := newApp()

	assert.Equal(t, 401, status(t, app, "/me", ""))
	assert.Equal(t, 401, status(t, app, "/me", "Token abc"))
	assert.Equal(t, 401, status(t, app, "/me", "Bearer not-a-jwt"))
	assert.Equal(t, 200, status(t, app, "/me", "Bearer "+tokenFor(t, model.RoleWaiter)))
}

func TestRequireAuth_RejectsForeignSignature(t *testing.T) {
	jwt.SetSecretKey("other-secret")
	token := tokenFor(t, model.RoleAdmin)
	jwt.SetSecretKey("test-secret")

	assert.Equal(t, 401, status(t, newApp(), "/me", "Bearer "+token))
}

func TestRequireRole(t *testing.T) {
	jwt.SetSecretKey("test-secret")
	app := newApp()

	assert.Equal(t, 204, status(t, app, "/kitchen", "Bearer "+tokenFor(t, model.RoleChef)))
	assert.Equal(t, 204, status(t, app, "/kitchen", "Bearer "+tokenFor(t, model.RoleAdmin)))
	assert.Equal(t, 403, status(t, app, "/kitchen", "Bearer "+tokenFor(t, model.RoleWaiter)))
	assert.Equal(t, 403, status(t, app, "/kitchen", "Bearer "+tokenFor(t, model.RoleCashier)))
}
