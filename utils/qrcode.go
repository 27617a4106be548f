package utils

import (
	"strings"

	"influencia-backend/constants"

	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QRCodeSize est la taille en pixels des e-pass générés
const QRCodeSize = 320

// GenerateQRCode calcule le code d'e-pass d'une inscription : INFLUENCIA2025-<ID>
func GenerateQRCode(id primitive.ObjectID) string {
	return constants.QRCodePrefix + strings.ToUpper(id.Hex())
}

// IsQRCode indique si une valeur scannée a le format d'un e-pass
func IsQRCode(value string) bool {
	return strings.HasPrefix(value, constants.QRCodePrefix) && len(value) > len(constants.QRCodePrefix)
}

// QRCodePNG encode le contenu d'un e-pass en image PNG
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = QRCodeSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
