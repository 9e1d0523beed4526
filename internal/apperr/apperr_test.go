package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Invalid, KindOf(Invalidf("quantité invalide")))
	assert.Equal(t, NotFound, KindOf(NotFoundf("produit %s introuvable", "x")))
	assert.Equal(t, Forbidden, KindOf(Forbiddenf("accès refusé")))
	assert.Equal(t, Kind(0), KindOf(errors.New("panne réseau")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("panier: %w", NotFoundf("panier introuvable"))
	assert.True(t, IsKind(err, NotFound))
	assert.False(t, IsKind(err, Invalid))
}

func TestMessage(t *testing.T) {
	err := NotFoundf("commande %s introuvable", "42")
	assert.Equal(t, "commande 42 introuvable", err.Error())
}
