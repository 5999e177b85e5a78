package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes a link to the order's tracking page.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, 256)
}

func (g DefaultQRGenerator) TrackingURL(orderID string) string {
	return fmt.Sprintf("%s/order-progress/%s", strings.TrimRight(g.BaseURL, "/"), orderID)
}

var _ QRGenerator = DefaultQRGenerator{}
