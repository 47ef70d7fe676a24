package connection

import (
	"context"
	"encoding/json"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"

	"github.com/sirupsen/logrus"
)

// ComparisonResult is the per-org record returned by Compare.  A failed org
// keeps its slot in the result list with the data fields nulled out.
type ComparisonResult struct {
	OrgID     domain.OrgID            `json:"org_id"`
	OrgName   string                  `json:"org_name"`
	Licenses  json.RawMessage         `json:"licenses"`
	Inventory *domain.InventoryCounts `json:"inventory"`
	Error     *string                 `json:"error"`
}

// Compare gathers info, licenses and inventory for each org in order.  One
// org failing never aborts the batch; the failure becomes data in that org's
// result entry.
func (cm *ConnectionManager) Compare(ctx context.Context, orgIDs []domain.OrgID) []ComparisonResult {

	results := make([]ComparisonResult, 0, len(orgIDs))

	for _, orgID := range orgIDs {
		results = append(results, cm.compareOne(ctx, orgID))
	}

	return results
}

func (cm *ConnectionManager) compareOne(ctx context.Context, orgID domain.OrgID) ComparisonResult {

	orgInfo, err := cm.GetOrganizationInfo(ctx, orgID)
	if err != nil {
		return comparisonFailure(orgID, err)
	}

	licenses, err := cm.GetOrgLicenses(ctx, orgID)
	if err != nil {
		return comparisonFailure(orgID, err)
	}

	inventory, err := cm.GetOrgInventoryCounts(ctx, orgID)
	if err != nil {
		return comparisonFailure(orgID, err)
	}

	return ComparisonResult{
		OrgID:     orgID,
		OrgName:   orgInfo.OrgName,
		Licenses:  licenses,
		Inventory: inventory,
	}
}

func comparisonFailure(orgID domain.OrgID, err error) ComparisonResult {

	metrics.comparisonOrgFailures.Inc()

	logger.Log.WithFields(logrus.Fields{
		"org_id": orgID,
		"error":  err}).Warn("Error fetching data for org during comparison")

	errMsg := err.Error()

	return ComparisonResult{
		OrgID:   orgID,
		OrgName: "Error",
		Error:   &errMsg,
	}
}
