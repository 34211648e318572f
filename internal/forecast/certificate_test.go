package forecast

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedCertB64(t *testing.T, notAfter time.Time) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "example.internal"},
		NotBefore:    notAfter.Add(-30 * 24 * time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes)
}

func TestCertificates_WarningAtEightDays(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	secrets := []TLSSecret{
		{Namespace: "default", Name: "web-tls", Type: "kubernetes.io/tls", TLSCrtB64: selfSignedCertB64(t, now.Add(8*24*time.Hour))},
	}

	warnings, notes := Certificates(secrets, nil, now)
	require.Empty(t, notes)
	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, 8, w.DaysLeft)
	assert.Equal(t, "Warning", string(w.Severity))
}

func TestCertificates_CriticalAtTwoDays(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	secrets := []TLSSecret{
		{Namespace: "default", Name: "web-tls", Type: "kubernetes.io/tls", TLSCrtB64: selfSignedCertB64(t, now.Add(2*24*time.Hour))},
	}

	warnings, _ := Certificates(secrets, nil, now)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Critical", string(warnings[0].Severity))
}

func TestCertificates_NotExpiringSoonProducesNoWarning(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	secrets := []TLSSecret{
		{Namespace: "default", Name: "web-tls", Type: "kubernetes.io/tls", TLSCrtB64: selfSignedCertB64(t, now.Add(90*24*time.Hour))},
	}

	warnings, _ := Certificates(secrets, nil, now)
	assert.Empty(t, warnings)
}

func TestCertificates_ReferencedByPopulatedFromIngresses(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	secrets := []TLSSecret{
		{Namespace: "default", Name: "web-tls", Type: "kubernetes.io/tls", TLSCrtB64: selfSignedCertB64(t, now.Add(1*24*time.Hour))},
	}
	referencedBy := map[string][]string{"default/web-tls": {"web-ingress"}}

	warnings, _ := Certificates(secrets, referencedBy, now)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"web-ingress"}, warnings[0].ReferencedBy)
}
