package middlewares_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/middlewares"
)

const (
	TOKEN_HEADER_CLIENT_NAME = middlewares.PSKClientIdHeader
	TOKEN_HEADER_PSK_NAME    = middlewares.PSKHeader
	authFailure              = "Authentication failed"
)

func getTestHandler(called *bool) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		*called = true
	}
}

func boiler(req *http.Request, expectedStatusCode int, expectedBody string, expectHandlerCalled bool, amw *middlewares.AuthMiddleware) {
	rr := httptest.NewRecorder()
	handlerCalled := false
	handler := amw.Authenticate(getTestHandler(&handlerCalled))
	handler.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(expectedStatusCode))
	Expect(rr.Body.String()).To(Equal(expectedBody))
	Expect(handlerCalled).To(Equal(expectHandlerCalled))
}

var _ = Describe("Auth", func() {
	var (
		req *http.Request
		amw *middlewares.AuthMiddleware
	)

	BeforeEach(func() {
		knownSecrets := make(map[string]interface{})
		knownSecrets["test_client_1"] = "12345"
		amw = &middlewares.AuthMiddleware{Secrets: knownSecrets}

		r, err := http.NewRequest("GET", "/api/organizations", nil)
		if err != nil {
			panic("Test error unable to get new request")
		}
		req = r
	})

	Describe("Using pre-shared-key authentication", func() {
		Context("With no missing auth headers", func() {
			It("Should return 200 when the key is correct", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 200, "", true, amw)
			})

			It("Should return a 401 when the key is incorrect", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "678910")

				boiler(req, 401, authFailure+"\n", false, amw)
			})

			It("Should return a 401 when the client is unknown", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "unknown_client")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 401, authFailure+"\n", false, amw)
			})
		})

		Context("With missing auth headers", func() {
			It("Should return a 401 when the client id is missing", func() {
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 401, authFailure+"\n", false, amw)
			})

			It("Should return a 401 when the psk is missing", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")

				boiler(req, 401, authFailure+"\n", false, amw)
			})
		})
	})

	Describe("With no configured secrets", func() {
		It("Should pass every request through", func() {
			amw = &middlewares.AuthMiddleware{}

			boiler(req, 200, "", true, amw)
		})
	})
})
