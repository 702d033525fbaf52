// internal/pkg/payment/pix.go
package payment

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"github.com/your-org/storefront-backend/internal/config"
)

// PixCharge is a static Pix charge the shopper can scan or copy-paste.
type PixCharge struct {
	Payload   string          `json:"payload"`
	QRCodePNG string          `json:"qr_code_png"` // base64-encoded PNG
	Amount    decimal.Decimal `json:"amount"`
	TxID      string          `json:"txid"`
}

// PixGenerator builds BR Code payloads from merchant configuration.
type PixGenerator struct {
	config *config.Config
}

// NewPixGenerator creates a new Pix charge generator
func NewPixGenerator(cfg *config.Config) *PixGenerator {
	return &PixGenerator{config: cfg}
}

// GenerateCharge builds the EMV-style payload for the given amount and
// transaction id, and renders it as a QR code PNG.
func (g *PixGenerator) GenerateCharge(amount decimal.Decimal, txid string) (*PixCharge, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("pix charge amount must be positive, got %s", amount)
	}
	txid = sanitizeTxID(txid)

	payload := g.buildPayload(amount, txid)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render pix qr code: %w", err)
	}

	return &PixCharge{
		Payload:   payload,
		QRCodePNG: base64.StdEncoding.EncodeToString(png),
		Amount:    amount,
		TxID:      txid,
	}, nil
}

// buildPayload assembles the BR Code TLV string. Tag 26 carries the
// merchant account info (GUI + key), tag 62 the txid, tag 63 the CRC.
func (g *PixGenerator) buildPayload(amount decimal.Decimal, txid string) string {
	// keys are at most 77 chars so the nested tag 26 value stays under 99
	merchantAccount := tlv("00", "br.gov.bcb.pix") + tlv("01", clampField(g.config.Payment.PixKey, 77))
	additionalData := tlv("05", txid)

	var b strings.Builder
	b.WriteString(tlv("00", "01"))                        // payload format indicator
	b.WriteString(tlv("26", merchantAccount))             // merchant account information
	b.WriteString(tlv("52", "0000"))                      // merchant category code
	b.WriteString(tlv("53", "986"))                       // currency: BRL
	b.WriteString(tlv("54", amount.StringFixed(2)))       // transaction amount
	b.WriteString(tlv("58", "BR"))                        // country code
	b.WriteString(tlv("59", clampField(g.config.Payment.MerchantName, 25)))
	b.WriteString(tlv("60", clampField(g.config.Payment.MerchantCity, 15)))
	b.WriteString(tlv("62", additionalData))

	payload := b.String() + "6304"
	return payload + crc16(payload)
}

// tlv emits an EMV tag-length-value field. The length digits are fixed
// at two, so values are capped at 99 bytes to keep the payload parseable.
func tlv(id, value string) string {
	value = clampField(value, 99)
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func clampField(value string, max int) string {
	if len(value) > max {
		return value[:max]
	}
	return value
}

// sanitizeTxID keeps the alphanumeric subset accepted by Pix txid fields,
// capped at 25 characters.
func sanitizeTxID(txid string) string {
	var b strings.Builder
	for _, r := range txid {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		out = "***"
	}
	if len(out) > 25 {
		out = out[:25]
	}
	return out
}

// crc16 computes the CRC-16/CCITT-FALSE checksum required by tag 63.
func crc16(payload string) string {
	crc := uint16(0xFFFF)
	for _, b := range []byte(payload) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
