package parse

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

// CertificateInfo is the subset of an X.509 certificate the forecaster
// needs to compute expiry warnings.
type CertificateInfo struct {
	NotAfter  string // RFC3339
	NotBefore string // RFC3339
	Subject   string
	Issuer    string
}

// ParseTLSSecretCert decodes a kubernetes.io/tls Secret's tls.crt entry
// (as it appears in a JSON-decoded RawObject: base64-encoded PEM text) and
// extracts the leaf certificate's validity window. crypto/x509 and
// encoding/pem are the only viable choice here — no example in the
// reference corpus imports a third-party certificate library. See
// DESIGN.md.
func ParseTLSSecretCert(tlsCrtBase64 string) (*CertificateInfo, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(tlsCrtBase64)
	if err != nil {
		return nil, fmt.Errorf("decode tls.crt base64: %w", err)
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("tls.crt does not contain a PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse X.509 certificate: %w", err)
	}

	return &CertificateInfo{
		NotAfter:  cert.NotAfter.UTC().Format("2006-01-02T15:04:05Z07:00"),
		NotBefore: cert.NotBefore.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Subject:   cert.Subject.CommonName,
		Issuer:    cert.Issuer.CommonName,
	}, nil
}
