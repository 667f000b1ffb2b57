package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, svc)
		})
	}
}

func TestQRCodeService_GenerateVerificationQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	png, err := svc.GenerateVerificationQR("https://example.com/auth/verify-email?token=abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 0x50, 0x4E, 0x47}))
}

func TestQRCodeService_GenerateVerificationQR_RelativeLink(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	png, err := svc.GenerateVerificationQR("/auth/verify-email?token=abc123")
	assert.Error(t, err)
	assert.Nil(t, png)
}
