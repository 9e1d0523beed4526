package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazario_back_end/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)
	return w.Code
}

func TestError_MapsKindsToStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(apperr.Invalidf("quantité invalide")))
	assert.Equal(t, http.StatusNotFound, statusFor(apperr.NotFoundf("produit introuvable")))
	assert.Equal(t, http.StatusForbidden, statusFor(apperr.Forbiddenf("accès refusé")))
}

func TestError_UnknownErrorIsServerError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("timeout scylla")))
}

func TestError_BodyCarriesMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, apperr.NotFoundf("commande introuvable"))
	assert.JSONEq(t, `{"error": "commande introuvable"}`, w.Body.String())
}
