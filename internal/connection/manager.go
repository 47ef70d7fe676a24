package connection

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/config"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/mist"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Session pairs a working api token with the identity snapshot captured when
// the token was probed.  The snapshot is never re-fetched.
type Session struct {
	Token domain.ApiToken
	Self  *mist.Self
}

type probeOutcome int

const (
	probeAuthenticated probeOutcome = iota
	probeRateLimited
	probeRejected
	probeTransportFailure
)

func (o probeOutcome) String() string {
	switch o {
	case probeAuthenticated:
		return "authenticated"
	case probeRateLimited:
		return "rate_limited"
	case probeRejected:
		return "rejected"
	default:
		return "transport_failure"
	}
}

// ConnectionManager owns the working token set and the org route table.
// Both are built once during construction and are read-only afterwards, so
// the manager is safe for concurrent use by the request facade.
type ConnectionManager struct {
	api        mist.Api
	host       string
	sessions   []*Session
	routeTable map[domain.OrgID]*Session
	defaultOrg domain.OrgID
}

// NewConnectionManager parses the comma separated token list, probes each
// token in input order and builds the org route table from the tokens that
// authenticated.  Construction fails if the token list is empty or if no
// token authenticates.
func NewConnectionManager(ctx context.Context, cfg *config.Config, api mist.Api) (*ConnectionManager, error) {

	tokens := parseTokenList(cfg.MistApiToken)
	if len(tokens) == 0 {
		return nil, ConfigurationError{Details: "no api tokens provided"}
	}

	cm := &ConnectionManager{
		api:        api,
		host:       cfg.MistApiHost,
		routeTable: make(map[domain.OrgID]*Session),
	}

	for idx, token := range tokens {

		tokenLogger := logger.Log.WithFields(logrus.Fields{
			"token": idx + 1, "token_count": len(tokens)})

		self, err := api.GetSelf(ctx, token)

		outcome := classifyProbe(err)
		metrics.tokenProbeCounter.With(prometheus.Labels{"outcome": outcome.String()}).Inc()

		switch outcome {
		case probeAuthenticated:
			session := &Session{Token: token, Self: self}
			cm.sessions = append(cm.sessions, session)
			cm.addRoutes(session)
			tokenLogger.Infof("Token authenticated with %d privileges", len(self.Privileges))
		case probeRateLimited:
			tokenLogger.Warn("Token rate limited, trying next...")
		case probeRejected:
			var apiErr *mist.APIError
			errors.As(err, &apiErr)
			tokenLogger.Warnf("Token rejected with status %d", apiErr.StatusCode)
		default:
			tokenLogger.WithFields(logrus.Fields{"error": err}).Warn("Token probe failed")
		}
	}

	if len(cm.sessions) == 0 {
		return nil, AuthenticationError{}
	}

	cm.defaultOrg = domain.OrgID(cfg.MistOrgId)
	if cm.defaultOrg == "" {
		if privileges := cm.sessions[0].Self.Privileges; len(privileges) > 0 {
			cm.defaultOrg = privileges[0].OrgID
			logger.Log.Info("Auto-detected default org: ", cm.defaultOrg)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"host":        cm.host,
		"default_org": cm.defaultOrg}).Infof(
		"Initialized Mist connection manager with %d working tokens", len(cm.sessions))

	return cm, nil
}

func parseTokenList(rawTokens string) []domain.ApiToken {
	var tokens []domain.ApiToken
	for _, t := range strings.Split(rawTokens, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tokens = append(tokens, domain.ApiToken(t))
		}
	}
	return tokens
}

func classifyProbe(err error) probeOutcome {
	if err == nil {
		return probeAuthenticated
	}

	var apiErr *mist.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return probeRateLimited
		}
		return probeRejected
	}

	return probeTransportFailure
}

// addRoutes maps each org in the session's privileges to the session.
// First-seen wins, so a token earlier in the input order keeps its claim on
// an org that later tokens can also access.
func (cm *ConnectionManager) addRoutes(session *Session) {
	for _, privilege := range session.Self.Privileges {
		if privilege.OrgID == "" {
			continue
		}
		if _, exists := cm.routeTable[privilege.OrgID]; !exists {
			cm.routeTable[privilege.OrgID] = session
		}
	}
}

// resolve returns the session authorized for the org.  An org missing from
// the route table falls back to the first working token: a token's privilege
// list can lag behind newly created orgs, so the lookup degrades rather than
// failing outright.
func (cm *ConnectionManager) resolve(orgID domain.OrgID) (*Session, error) {
	if session, exists := cm.routeTable[orgID]; exists {
		return session, nil
	}

	if len(cm.sessions) == 0 {
		return nil, NoSessionAvailableError{}
	}

	metrics.routeTableFallbackCount.Inc()
	logger.Log.WithFields(logrus.Fields{"org_id": orgID}).Warn(
		"No token mapped for org, falling back to first working token")

	return cm.sessions[0], nil
}

// targetOrg substitutes the default org for an omitted org id.
func (cm *ConnectionManager) targetOrg(orgID domain.OrgID) (domain.OrgID, error) {
	if orgID != "" {
		return orgID, nil
	}
	if cm.defaultOrg == "" {
		return "", NoDefaultOrganizationError{}
	}
	return cm.defaultOrg, nil
}

// ListOrganizations aggregates the orgs visible across every working token.
// Orgs seen by multiple tokens appear once, attributed to the first token
// that reported them.  The listing is sorted case-insensitively by name.
func (cm *ConnectionManager) ListOrganizations() []domain.OrgSummary {

	seen := make(map[domain.OrgID]bool)
	var orgs []domain.OrgSummary

	for _, session := range cm.sessions {
		for _, privilege := range session.Self.Privileges {
			if privilege.OrgID == "" || seen[privilege.OrgID] {
				continue
			}
			seen[privilege.OrgID] = true

			name := privilege.OrgName
			if name == "" {
				name = privilege.Name
			}
			if name == "" {
				name = "Unknown"
			}

			orgs = append(orgs, domain.OrgSummary{
				ID:    privilege.OrgID,
				Name:  name,
				Role:  defaultString(privilege.Role, "unknown"),
				Scope: defaultString(privilege.Scope, "unknown"),
			})
		}
	}

	sort.SliceStable(orgs, func(i, j int) bool {
		return strings.ToLower(orgs[i].Name) < strings.ToLower(orgs[j].Name)
	})

	return orgs
}

// GetOrganizationInfo fetches and normalizes the org metadata document.
func (cm *ConnectionManager) GetOrganizationInfo(ctx context.Context, orgID domain.OrgID) (*domain.OrgInfo, error) {

	targetOrg, err := cm.targetOrg(orgID)
	if err != nil {
		return nil, err
	}

	session, err := cm.resolve(targetOrg)
	if err != nil {
		return nil, err
	}

	org, err := cm.api.GetOrg(ctx, session.Token, targetOrg)
	if err != nil {
		return nil, cm.remoteFailure(targetOrg, "organization info", err)
	}

	return &domain.OrgInfo{
		OrgID:       org.ID,
		OrgName:     defaultString(org.Name, "Unknown Organization"),
		CreatedTime: org.CreatedTime,
		UpdatedTime: org.UpdatedTime,
	}, nil
}

// GetOrgLicenses returns the license summary payload verbatim.
func (cm *ConnectionManager) GetOrgLicenses(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error) {
	return cm.fetchOpaque(ctx, orgID, "licenses", cm.api.GetOrgLicensesSummary)
}

// GetOrgLicenseUsage returns the per-site license usage payload verbatim.
func (cm *ConnectionManager) GetOrgLicenseUsage(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error) {
	return cm.fetchOpaque(ctx, orgID, "license usage", cm.api.GetOrgLicensesBySite)
}

type opaqueFetch func(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (json.RawMessage, error)

// The license summary and usage-by-site calls only differ in the endpoint
// they hit, so both run through this one fetch path.
func (cm *ConnectionManager) fetchOpaque(ctx context.Context, orgID domain.OrgID, operation string, fetch opaqueFetch) (json.RawMessage, error) {

	targetOrg, err := cm.targetOrg(orgID)
	if err != nil {
		return nil, err
	}

	session, err := cm.resolve(targetOrg)
	if err != nil {
		return nil, err
	}

	payload, err := fetch(ctx, session.Token, targetOrg)
	if err != nil {
		return nil, cm.remoteFailure(targetOrg, operation, err)
	}

	return payload, nil
}

// GetOrgInventoryCounts issues one physical count request per device class.
// A failure on any class aborts the whole operation: a partially summed
// total would silently undercount.
func (cm *ConnectionManager) GetOrgInventoryCounts(ctx context.Context, orgID domain.OrgID) (*domain.InventoryCounts, error) {

	targetOrg, err := cm.targetOrg(orgID)
	if err != nil {
		return nil, err
	}

	session, err := cm.resolve(targetOrg)
	if err != nil {
		return nil, err
	}

	counts := &domain.InventoryCounts{}

	for _, deviceType := range []string{mist.DeviceTypeAP, mist.DeviceTypeSwitch, mist.DeviceTypeGateway} {

		count, err := cm.api.CountOrgInventory(ctx, session.Token, targetOrg, deviceType)
		if err != nil {
			return nil, cm.remoteFailure(targetOrg, "inventory counts", err)
		}

		switch deviceType {
		case mist.DeviceTypeAP:
			counts.Aps = count
		case mist.DeviceTypeSwitch:
			counts.Switches = count
		case mist.DeviceTypeGateway:
			counts.Gateways = count
		}
	}

	counts.Total = counts.Aps + counts.Switches + counts.Gateways

	return counts, nil
}

func (cm *ConnectionManager) remoteFailure(orgID domain.OrgID, operation string, err error) error {

	statusCode := 0
	var apiErr *mist.APIError
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode
	}

	logger.Log.WithFields(logrus.Fields{
		"org_id": orgID,
		"error":  err}).Errorf("Error getting %s", operation)

	return RemoteServiceError{OrgID: orgID, StatusCode: statusCode, Err: err}
}

func defaultString(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
