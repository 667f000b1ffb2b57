package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GenerateVerificationQR encodes a verification link as a PNG QR code.
	GenerateVerificationQR(link string) ([]byte, error)
}
