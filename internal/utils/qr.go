package utils

import (
	"github.com/skip2/go-qrcode"
)

// GenerateOrderQR encode le contenu de suivi d'une commande en PNG
func GenerateOrderQR(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 256)
}
