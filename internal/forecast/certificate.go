package forecast

import (
	"math"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

const (
	certWarningDays  = 14
	certCriticalDays = 3
)

// CertificateWarning is one soon-to-expire kubernetes.io/tls Secret.
type CertificateWarning struct {
	Secret            string         `json:"secret"`
	Namespace         string         `json:"namespace"`
	ExpiresAt         time.Time      `json:"expires_at"`
	DaysLeft          int            `json:"days_left"`
	Severity          model.Severity `json:"severity"`
	ReferencedBy      []string       `json:"referenced_by,omitempty"`
	RecommendedAction string         `json:"recommended_action"`
}

// TLSSecret is the subset of a parsed Secret the certificate scan needs:
// its tls.crt payload (still base64, as stored in the object) and type.
type TLSSecret struct {
	Namespace   string
	Name        string
	Type        string
	TLSCrtB64   string
}

// Certificates scans every kubernetes.io/tls secret, decodes its leaf
// certificate, and emits a warning when daysLeft <= certWarningDays.
// referencedBy maps "namespace/name" -> the Ingresses whose spec.tls
// references that secret, for the output's referenced_by[] field.
func Certificates(secrets []TLSSecret, referencedBy map[string][]string, now time.Time) ([]CertificateWarning, []string) {
	var warnings []CertificateWarning
	var notes []string

	for _, s := range secrets {
		if s.Type != "kubernetes.io/tls" || s.TLSCrtB64 == "" {
			continue
		}
		info, err := parse.ParseTLSSecretCert(s.TLSCrtB64)
		if err != nil {
			notes = append(notes, s.Namespace+"/"+s.Name+": "+err.Error())
			continue
		}
		notAfter, err := time.Parse(time.RFC3339, info.NotAfter)
		if err != nil {
			notes = append(notes, s.Namespace+"/"+s.Name+": unparseable notAfter")
			continue
		}

		daysLeft := int(math.Floor(notAfter.Sub(now).Hours() / 24))
		if daysLeft > certWarningDays {
			continue
		}

		severity := model.SeverityWarning
		if daysLeft <= certCriticalDays {
			severity = model.SeverityCritical
		}

		warnings = append(warnings, CertificateWarning{
			Secret: s.Name, Namespace: s.Namespace, ExpiresAt: notAfter, DaysLeft: daysLeft,
			Severity:          severity,
			ReferencedBy:      referencedBy[s.Namespace+"/"+s.Name],
			RecommendedAction: "rotate the certificate before it expires",
		})
	}

	return warnings, notes
}
