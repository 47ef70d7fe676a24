package mist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Api is the surface of the Mist cloud consumed by the connection manager.
type Api interface {
	GetSelf(ctx context.Context, token domain.ApiToken) (*Self, error)
	GetOrg(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (*Org, error)
	GetOrgLicensesSummary(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (json.RawMessage, error)
	GetOrgLicensesBySite(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (json.RawMessage, error)
	CountOrgInventory(ctx context.Context, token domain.ApiToken, orgID domain.OrgID, deviceType string) (int, error)
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(host string, timeout time.Duration) *Client {
	return newClientWithBaseUrl("https://"+host, timeout)
}

func newClientWithBaseUrl(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetSelf(ctx context.Context, token domain.ApiToken) (*Self, error) {
	body, err := c.get(ctx, token, "self", "/api/v1/self")
	if err != nil {
		return nil, err
	}

	var self Self
	if err := json.Unmarshal(body, &self); err != nil {
		return nil, fmt.Errorf("unable to parse /self response: %w", err)
	}

	return &self, nil
}

func (c *Client) GetOrg(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (*Org, error) {
	body, err := c.get(ctx, token, "org_info", fmt.Sprintf("/api/v1/orgs/%s", orgID))
	if err != nil {
		return nil, err
	}

	var org Org
	if err := json.Unmarshal(body, &org); err != nil {
		return nil, fmt.Errorf("unable to parse org response: %w", err)
	}

	return &org, nil
}

func (c *Client) GetOrgLicensesSummary(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (json.RawMessage, error) {
	return c.get(ctx, token, "licenses_summary", fmt.Sprintf("/api/v1/orgs/%s/licenses", orgID))
}

func (c *Client) GetOrgLicensesBySite(ctx context.Context, token domain.ApiToken, orgID domain.OrgID) (json.RawMessage, error) {
	return c.get(ctx, token, "licenses_by_site", fmt.Sprintf("/api/v1/orgs/%s/licenses/usages", orgID))
}

func (c *Client) CountOrgInventory(ctx context.Context, token domain.ApiToken, orgID domain.OrgID, deviceType string) (int, error) {
	path := fmt.Sprintf("/api/v1/orgs/%s/inventory/count?type=%s", orgID, url.QueryEscape(deviceType))

	body, err := c.get(ctx, token, "inventory_count", path)
	if err != nil {
		return 0, err
	}

	var countResponse inventoryCountResponse
	if err := json.Unmarshal(body, &countResponse); err != nil {
		return 0, fmt.Errorf("unable to parse inventory count response: %w", err)
	}

	total := 0
	for _, result := range countResponse.Results {
		total += result.Count
	}

	return total, nil
}

func (c *Client) get(ctx context.Context, token domain.ApiToken, endpoint string, path string) (json.RawMessage, error) {

	metrics.apiCallCounter.With(prometheus.Labels{"endpoint": endpoint}).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+token.String())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.apiFailureCounter.With(prometheus.Labels{"endpoint": endpoint}).Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.apiFailureCounter.With(prometheus.Labels{"endpoint": endpoint}).Inc()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.apiFailureCounter.With(prometheus.Labels{"endpoint": endpoint}).Inc()
		logger.Log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode}).Debug("Mist API call failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
