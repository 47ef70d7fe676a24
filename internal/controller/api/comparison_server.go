package api

import (
	"net/http"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/config"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/connection"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/domain"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/middlewares"
	logging "github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"
	"github.com/redhatinsights/platform-go-middlewares/request_id"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ComparisonServer struct {
	connectionMgr connection.OrgComparisonService
	router        *mux.Router
	config        *config.Config
}

func NewComparisonServer(cm connection.OrgComparisonService, r *mux.Router, cfg *config.Config) *ComparisonServer {
	return &ComparisonServer{
		connectionMgr: cm,
		router:        r,
		config:        cfg,
	}
}

func (s *ComparisonServer) Routes() {
	mmw := &middlewares.MetricsMiddleware{}
	amw := &middlewares.AuthMiddleware{Secrets: s.config.ServiceToServiceCredentials}

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)

	securedSubRouter := s.router.PathPrefix("/api").Subrouter()
	securedSubRouter.Use(logging.AccessLoggerMiddleware,
		mmw.RecordHTTPMetrics,
		amw.Authenticate)

	securedSubRouter.HandleFunc("/organizations", s.handleOrganizationListing()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/organization/{org_id}", s.handleOrganizationInfo()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/licenses/{org_id}", s.handleLicenses()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/license-usage/{org_id}", s.handleLicenseUsage()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/inventory/{org_id}", s.handleInventory()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/compare", s.handleCompare()).Methods(http.MethodPost)
}

func (s *ComparisonServer) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func (s *ComparisonServer) handleOrganizationListing() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		logger := logging.Log.WithFields(logrus.Fields{"request_id": requestId})

		logger.Debug("Getting organization list")

		orgs := s.connectionMgr.ListOrganizations()

		writeSuccessResponse(w, orgs)
	}
}

func (s *ComparisonServer) handleOrganizationInfo() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		orgID := getOrgIDFromRequestPath(req)
		logger := logging.Log.WithFields(logrus.Fields{
			"request_id": requestId,
			"org_id":     orgID})

		orgInfo, err := s.connectionMgr.GetOrganizationInfo(req.Context(), orgID)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Error("Error getting organization")
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeSuccessResponse(w, orgInfo)
	}
}

func (s *ComparisonServer) handleLicenses() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		orgID := getOrgIDFromRequestPath(req)
		logger := logging.Log.WithFields(logrus.Fields{
			"request_id": requestId,
			"org_id":     orgID})

		licenses, err := s.connectionMgr.GetOrgLicenses(req.Context(), orgID)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Error("Error getting licenses")
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeSuccessResponse(w, licenses)
	}
}

func (s *ComparisonServer) handleLicenseUsage() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		orgID := getOrgIDFromRequestPath(req)
		logger := logging.Log.WithFields(logrus.Fields{
			"request_id": requestId,
			"org_id":     orgID})

		usage, err := s.connectionMgr.GetOrgLicenseUsage(req.Context(), orgID)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Error("Error getting license usage")
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeSuccessResponse(w, usage)
	}
}

func (s *ComparisonServer) handleInventory() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		orgID := getOrgIDFromRequestPath(req)
		logger := logging.Log.WithFields(logrus.Fields{
			"request_id": requestId,
			"org_id":     orgID})

		counts, err := s.connectionMgr.GetOrgInventoryCounts(req.Context(), orgID)
		if err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Error("Error getting inventory")
			writeErrorResponse(w, http.StatusInternalServerError, err)
			return
		}

		writeSuccessResponse(w, counts)
	}
}

type compareRequest struct {
	OrgIds []string `json:"org_ids" validate:"required,min=1"`
}

func (s *ComparisonServer) handleCompare() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		requestId := request_id.GetReqID(req.Context())
		comparisonRunId := uuid.New().String()
		logger := logging.Log.WithFields(logrus.Fields{
			"request_id":     requestId,
			"comparison_run": comparisonRunId})

		body := http.MaxBytesReader(w, req.Body, 1048576)

		var compareReq compareRequest

		if err := decodeJSON(body, &compareReq); err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Debug("Unable to process compare request")
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		orgIDs := make([]domain.OrgID, len(compareReq.OrgIds))
		for i, orgID := range compareReq.OrgIds {
			orgIDs[i] = domain.OrgID(orgID)
		}

		logger.Infof("Comparing licensing across %d orgs", len(orgIDs))

		results := s.connectionMgr.Compare(req.Context(), orgIDs)

		writeSuccessResponse(w, results)
	}
}

func getOrgIDFromRequestPath(req *http.Request) domain.OrgID {
	return domain.OrgID(mux.Vars(req)["org_id"])
}
