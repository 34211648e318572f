package orchestrator

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// shellMetacharacters are rejected outright in any user-supplied name,
// namespace, or kind: kubectl-smart never shells out with these values, but
// a validation layer that lets them through invites trouble the moment some
// future code path does.
const shellMetacharacters = ";&|$`\\\n\r"

// validateSubject checks kind, namespace, and name the way every command
// that names a single resource must: non-empty, free of shell
// metacharacters, and (for namespace/name) a valid RFC 1123 DNS subdomain.
// It runs before any cluster call, so a bad argument never reaches the API
// server.
func validateSubject(component, kind, namespace, name string) error {
	if kind == "" || namespace == "" || name == "" {
		return inputError(component, "kind, namespace and name are all required")
	}
	if err := validateNoMetacharacters(kind); err != nil {
		return inputError(component, "kind "+err.Error())
	}
	if err := validateDNS1123("namespace", namespace); err != nil {
		return inputError(component, err.Error())
	}
	if err := validateDNS1123("name", name); err != nil {
		return inputError(component, err.Error())
	}
	return nil
}

// validateNamespace is the top command's lighter check: it names only a
// namespace, with no kind or resource name to validate alongside it.
func validateNamespace(component, namespace string) error {
	if namespace == "" {
		return inputError(component, "namespace is required")
	}
	if err := validateDNS1123("namespace", namespace); err != nil {
		return inputError(component, err.Error())
	}
	return nil
}

func validateDNS1123(field, value string) error {
	if err := validateNoMetacharacters(value); err != nil {
		return fmt.Errorf("%s %s", field, err.Error())
	}
	if msgs := validation.IsDNS1123Subdomain(value); len(msgs) > 0 {
		return fmt.Errorf("invalid %s %q: %s", field, value, strings.Join(msgs, "; "))
	}
	return nil
}

func validateNoMetacharacters(value string) error {
	if i := strings.IndexAny(value, shellMetacharacters); i >= 0 {
		return fmt.Errorf("contains forbidden character %q", value[i])
	}
	return nil
}

// validateHorizon enforces the documented forecast window: the CLI
// substitutes the configured default before this ever runs, so reaching
// here with an out-of-range value means the caller asked for it explicitly.
func validateHorizon(component string, hours float64) error {
	if hours <= 0 || hours > 168 {
		return inputError(component, fmt.Sprintf("horizon must be in (0,168] hours, got %v", hours))
	}
	return nil
}
