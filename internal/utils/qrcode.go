package utils

import qrcode "github.com/skip2/go-qrcode"

// TrackingQRCode encode l'URL de suivi d'une commande en PNG, affiché sur la
// page de statut pour reprendre le suivi depuis un téléphone.
func TrackingQRCode(trackingURL string) ([]byte, error) {
	return qrcode.Encode(trackingURL, qrcode.Medium, 256)
}
