package domain

type ApiToken string

func (at ApiToken) String() string {
	return string(at)
}

type OrgID string

func (oid OrgID) String() string {
	return string(oid)
}

// OrgSummary is one entry in the aggregated organization listing, attributed
// to the first api token that was seen to grant access to the org.
type OrgSummary struct {
	ID    OrgID  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// OrgInfo is the normalized form of the Mist org metadata document.
type OrgInfo struct {
	OrgID       OrgID  `json:"org_id"`
	OrgName     string `json:"org_name"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

// InventoryCounts holds the physical device counts for one org.
type InventoryCounts struct {
	Aps      int `json:"aps"`
	Switches int `json:"switches"`
	Gateways int `json:"gateways"`
	Total    int `json:"total"`
}
