package mist

import (
	"fmt"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
)

const (
	DeviceTypeAP      = "ap"
	DeviceTypeSwitch  = "switch"
	DeviceTypeGateway = "gateway"
)

// Privilege describes one org a token's identity may act on.  Mist returns
// the org name in either the org_name or the name field depending on the
// privilege scope.
type Privilege struct {
	OrgID   domain.OrgID `json:"org_id"`
	OrgName string       `json:"org_name"`
	Name    string       `json:"name"`
	Role    string       `json:"role"`
	Scope   string       `json:"scope"`
}

// Self is the identity document returned by the /self endpoint.
type Self struct {
	Email      string      `json:"email"`
	Privileges []Privilege `json:"privileges"`
}

// Org is the raw org metadata document.
type Org struct {
	ID          domain.OrgID `json:"id"`
	Name        string       `json:"name"`
	CreatedTime int64        `json:"created_time"`
	UpdatedTime int64        `json:"updated_time"`
}

type inventoryCountResult struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

type inventoryCountResponse struct {
	Results []inventoryCountResult `json:"results"`
}

// APIError is returned for any non-2xx response from the Mist API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mist api returned status %d", e.StatusCode)
}
