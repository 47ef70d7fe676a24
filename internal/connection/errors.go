package connection

import (
	"fmt"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
)

// ConfigurationError means the raw token input was unusable.  Construction
// aborts before any remote call is made.
type ConfigurationError struct {
	Details string
}

func (e ConfigurationError) Error() string {
	return "invalid configuration: " + e.Details
}

// AuthenticationError means none of the supplied tokens authenticated.
type AuthenticationError struct {
}

func (e AuthenticationError) Error() string {
	return "all tokens failed to initialize"
}

// NoSessionAvailableError means the working token set is empty.  This should
// be unreachable after construction succeeds but is guarded anyway.
type NoSessionAvailableError struct {
}

func (e NoSessionAvailableError) Error() string {
	return "no working api session available"
}

// NoDefaultOrganizationError means a call omitted the org id and no default
// org could be determined at initialization time.
type NoDefaultOrganizationError struct {
}

func (e NoDefaultOrganizationError) Error() string {
	return "no org id provided and no default org available"
}

// RemoteServiceError wraps a failed Mist API data call.  StatusCode is zero
// for transport level failures.
type RemoteServiceError struct {
	OrgID      domain.OrgID
	StatusCode int
	Err        error
}

func (e RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mist api request for org %s failed with status %d", e.OrgID, e.StatusCode)
	}
	return fmt.Sprintf("mist api request for org %s failed: %s", e.OrgID, e.Err)
}

func (e RemoteServiceError) Unwrap() error {
	return e.Err
}
