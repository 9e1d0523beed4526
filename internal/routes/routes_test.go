package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazario_back_end/internal/models"
	"bazario_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r)
	return r
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(models.User{
		ID:    "b1e2d3c4-f5a6-4788-99aa-bbccddeeff00",
		Email: "compte@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCartRoutes_CustomerOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAPIRouter()

	for _, role := range []string{models.RoleSeller, models.RoleAdmin} {
		token := tokenFor(t, role)

		assert.Equal(t, http.StatusForbidden,
			doRequest(r, http.MethodPost, "/api/cart", token, `{"productId":"x","quantity":1}`).Code,
			"POST /api/cart doit refuser le rôle %s", role)
		assert.Equal(t, http.StatusForbidden,
			doRequest(r, http.MethodGet, "/api/cart", token, "").Code,
			"GET /api/cart doit refuser le rôle %s", role)
		assert.Equal(t, http.StatusForbidden,
			doRequest(r, http.MethodDelete, "/api/cart/clear", token, "").Code,
			"DELETE /api/cart/clear doit refuser le rôle %s", role)
	}
}

func TestOrderRoutes_CustomerOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAPIRouter()

	for _, role := range []string{models.RoleSeller, models.RoleAdmin} {
		token := tokenFor(t, role)

		assert.Equal(t, http.StatusForbidden,
			doRequest(r, http.MethodPost, "/api/orders", token, `{"items":[]}`).Code,
			"POST /api/orders doit refuser le rôle %s", role)
		assert.Equal(t, http.StatusForbidden,
			doRequest(r, http.MethodGet, "/api/orders", token, "").Code,
			"GET /api/orders doit refuser le rôle %s", role)
	}
}

func TestCartRoutes_CustomerPassesGates(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAPIRouter()
	token := tokenFor(t, models.RoleCustomer)

	// Corps invalide : le 400 prouve que le client a franchi les
	// middlewares et atteint le handler
	w := doRequest(r, http.MethodPost, "/api/cart", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/orders", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRoutes_RequireToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAPIRouter()

	assert.Equal(t, http.StatusUnauthorized,
		doRequest(r, http.MethodGet, "/api/cart", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		doRequest(r, http.MethodPost, "/api/orders", "", "").Code)
}

func TestStaffOrderRoutes_RejectCustomer(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")
	r := newAPIRouter()
	token := tokenFor(t, models.RoleCustomer)

	assert.Equal(t, http.StatusForbidden,
		doRequest(r, http.MethodGet, "/api/admin/orders", token, "").Code)
	assert.Equal(t, http.StatusForbidden,
		doRequest(r, http.MethodPut, "/api/admin/orders/x/status", token, `{"status":"Shipped"}`).Code)
}
