package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/config"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/connection"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubComparisonService struct {
	orgs        []domain.OrgSummary
	orgInfo     *domain.OrgInfo
	licenses    json.RawMessage
	usage       json.RawMessage
	inventory   *domain.InventoryCounts
	compareFunc func(orgIDs []domain.OrgID) []connection.ComparisonResult
	err         error
}

func (s *stubComparisonService) ListOrganizations() []domain.OrgSummary {
	return s.orgs
}

func (s *stubComparisonService) GetOrganizationInfo(ctx context.Context, orgID domain.OrgID) (*domain.OrgInfo, error) {
	return s.orgInfo, s.err
}

func (s *stubComparisonService) GetOrgLicenses(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error) {
	return s.licenses, s.err
}

func (s *stubComparisonService) GetOrgLicenseUsage(ctx context.Context, orgID domain.OrgID) (json.RawMessage, error) {
	return s.usage, s.err
}

func (s *stubComparisonService) GetOrgInventoryCounts(ctx context.Context, orgID domain.OrgID) (*domain.InventoryCounts, error) {
	return s.inventory, s.err
}

func (s *stubComparisonService) Compare(ctx context.Context, orgIDs []domain.OrgID) []connection.ComparisonResult {
	if s.compareFunc != nil {
		return s.compareFunc(orgIDs)
	}
	return nil
}

var _ = Describe("ComparisonServer", func() {

	var (
		stub   *stubComparisonService
		router *mux.Router
	)

	BeforeEach(func() {
		stub = &stubComparisonService{}
		router = mux.NewRouter()
		server := NewComparisonServer(stub, router, config.GetConfig())
		server.Routes()
	})

	makeRequest := func(method, target string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	Describe("the health endpoint", func() {
		It("reports healthy", func() {
			rr := makeRequest("GET", "/health", nil)

			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(`{"status":"healthy"}`))
		})
	})

	Describe("listing organizations", func() {
		It("wraps the listing in a success envelope", func() {
			stub.orgs = []domain.OrgSummary{
				{ID: "org-a", Name: "Alpha", Role: "admin", Scope: "org"},
			}

			rr := makeRequest("GET", "/api/organizations", nil)

			Expect(rr.Code).To(Equal(http.StatusOK))

			var response apiResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Success).To(BeTrue())
		})
	})

	Describe("getting organization info", func() {
		It("returns the normalized document", func() {
			stub.orgInfo = &domain.OrgInfo{OrgID: "org-a", OrgName: "Alpha", CreatedTime: 1, UpdatedTime: 2}

			rr := makeRequest("GET", "/api/organization/org-a", nil)

			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(
				`{"success":true,"data":{"org_id":"org-a","org_name":"Alpha","created_time":1,"updated_time":2}}`))
		})

		It("translates a failure into an error envelope", func() {
			stub.err = connection.RemoteServiceError{OrgID: "org-a", StatusCode: 404}

			rr := makeRequest("GET", "/api/organization/org-a", nil)

			Expect(rr.Code).To(Equal(http.StatusInternalServerError))

			var response apiResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Success).To(BeFalse())
			Expect(response.Error).ToNot(BeEmpty())
		})
	})

	Describe("getting licenses", func() {
		It("passes the payload through verbatim", func() {
			stub.licenses = json.RawMessage(`{"summary":{"sub_ap":25}}`)

			rr := makeRequest("GET", "/api/licenses/org-a", nil)

			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(
				`{"success":true,"data":{"summary":{"sub_ap":25}}}`))
		})
	})

	Describe("getting inventory counts", func() {
		It("returns the per-class counts", func() {
			stub.inventory = &domain.InventoryCounts{Aps: 3, Switches: 2, Gateways: 1, Total: 6}

			rr := makeRequest("GET", "/api/inventory/org-a", nil)

			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Body.String()).To(MatchJSON(
				`{"success":true,"data":{"aps":3,"switches":2,"gateways":1,"total":6}}`))
		})
	})

	Describe("comparing organizations", func() {
		It("returns one entry per requested org", func() {
			stub.compareFunc = func(orgIDs []domain.OrgID) []connection.ComparisonResult {
				Expect(orgIDs).To(Equal([]domain.OrgID{"org-a", "org-b"}))
				errMsg := "mist api request for org org-b failed with status 404"
				return []connection.ComparisonResult{
					{OrgID: "org-a", OrgName: "Alpha"},
					{OrgID: "org-b", OrgName: "Error", Error: &errMsg},
				}
			}

			rr := makeRequest("POST", "/api/compare", []byte(`{"org_ids":["org-a","org-b"]}`))

			Expect(rr.Code).To(Equal(http.StatusOK))

			var response struct {
				Success bool                          `json:"success"`
				Data    []connection.ComparisonResult `json:"data"`
			}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Data).To(HaveLen(2))
			Expect(response.Data[1].OrgName).To(Equal("Error"))
		})

		It("rejects a body without org ids", func() {
			rr := makeRequest("POST", "/api/compare", []byte(`{}`))

			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects malformed json", func() {
			rr := makeRequest("POST", "/api/compare", []byte(`{"org_ids":`))

			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
