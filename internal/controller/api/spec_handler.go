package api

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"
)

type ApiSpecServer struct {
	router       *mux.Router
	urlPrefix    string
	specFileName string
}

func NewApiSpecServer(r *mux.Router, urlPrefix string, f string) *ApiSpecServer {
	return &ApiSpecServer{
		router:       r,
		urlPrefix:    urlPrefix,
		specFileName: f,
	}
}

func (s *ApiSpecServer) Routes() {
	s.router.HandleFunc("/openapi.json", s.handleApiSpec()).Methods(http.MethodGet)
	s.router.HandleFunc(s.urlPrefix+"/openapi.json", s.handleApiSpec()).Methods(http.MethodGet)
}

func (s *ApiSpecServer) handleApiSpec() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {
		file, err := os.ReadFile(s.specFileName)
		if err != nil {
			logger.Log.Printf("Unable to read API spec file (%s): %s", s.specFileName, err)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(file)
	}
}
