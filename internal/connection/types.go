package connection

import (
	"context"
	"encoding/json"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
)

// OrgComparisonService is the surface the request facade consumes.  The
// ConnectionManager is the only production implementation.
type OrgComparisonService interface {
	ListOrganizations() []domain.OrgSummary
	GetOrganizationInfo(ctx context.Context, orgID domain.OrgID) (*domain.OrgInfo, error)
	GetOrgLicenses(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error)
	GetOrgLicenseUsage(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error)
	GetOrgInventoryCounts(ctx context.Context, orgID domain.OrgID) (*domain.InventoryCounts, error)
	Compare(ctx context.Context, orgIDs []domain.OrgID) []ComparisonResult
}
