package mist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"

	"github.com/google/go-cmp/cmp"
)

func init() {
	logger.InitLogger()
}

func newTestClient(ts *httptest.Server) *Client {
	return newClientWithBaseUrl(ts.URL, 1*time.Second)
}

func TestGetSelfSendsTokenAuthHeader(t *testing.T) {
	receivedAuth := ""

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"email":"admin@example.com","privileges":[]}`))
	}))
	defer ts.Close()

	client := newTestClient(ts)

	self, err := client.GetSelf(context.TODO(), "issasecret")
	if err != nil {
		t.Fatalf("Got error; expected none: %s", err)
	}

	if receivedAuth != "Token issasecret" {
		t.Fatalf("Authorization header not getting set properly: %s", receivedAuth)
	}

	if self.Email != "admin@example.com" {
		t.Fatalf("Self document not parsed properly")
	}
}

func TestGetSelfParsesPrivileges(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"privileges":[
			{"org_id":"org-1","org_name":"Acme","role":"admin","scope":"org"},
			{"org_id":"org-2","name":"Globex","role":"read","scope":"org"}]}`))
	}))
	defer ts.Close()

	client := newTestClient(ts)

	self, err := client.GetSelf(context.TODO(), "token")
	if err != nil {
		t.Fatalf("Got error; expected none: %s", err)
	}

	expected := []Privilege{
		{OrgID: "org-1", OrgName: "Acme", Role: "admin", Scope: "org"},
		{OrgID: "org-2", Name: "Globex", Role: "read", Scope: "org"},
	}

	if !cmp.Equal(self.Privileges, expected) {
		t.Fatalf("Expected privileges %+v, got %+v", expected, self.Privileges)
	}
}

func TestNonSuccessStatusBecomesAPIError(t *testing.T) {
	cases := []struct {
		responseCode int
	}{
		{responseCode: http.StatusUnauthorized},
		{responseCode: http.StatusTooManyRequests},
		{responseCode: http.StatusNotFound},
		{responseCode: http.StatusInternalServerError},
	}

	for _, c := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.responseCode)
		}))

		client := newTestClient(ts)

		_, err := client.GetSelf(context.TODO(), "token")
		ts.Close()

		if err == nil {
			t.Fatalf("Expected error for status %d; got none.", c.responseCode)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("Expected an APIError for status %d, got %T", c.responseCode, err)
		}

		if apiErr.StatusCode != c.responseCode {
			t.Fatalf("Expected status %d to be carried on the error, got %d", c.responseCode, apiErr.StatusCode)
		}
	}
}

func TestCountOrgInventorySumsModelCounts(t *testing.T) {
	cases := []struct {
		responseBody  string
		expectedCount int
	}{
		{
			responseBody:  `{"results":[{"model":"AP43","count":10},{"model":"AP32","count":5}]}`,
			expectedCount: 15,
		},
		{
			responseBody:  `{"results":[]}`,
			expectedCount: 0,
		},
		{
			responseBody:  `{"results":[{"model":"EX4400","count":7}]}`,
			expectedCount: 7,
		},
	}

	for _, c := range cases {
		receivedType := ""

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedType = r.URL.Query().Get("type")
			w.Write([]byte(c.responseBody))
		}))

		client := newTestClient(ts)

		count, err := client.CountOrgInventory(context.TODO(), "token", "org-1", DeviceTypeAP)
		ts.Close()

		if err != nil {
			t.Fatalf("Got error; expected none: %s", err)
		}

		if receivedType != DeviceTypeAP {
			t.Fatalf("Device type query param not getting set properly: %s", receivedType)
		}

		if count != c.expectedCount {
			t.Fatalf("Expected count %d, got %d", c.expectedCount, count)
		}
	}
}

func TestOpaqueLicensePayloadsArePassedThrough(t *testing.T) {
	licensePayload := `{"summary":{"sub_ap":25},"licenses":[{"type":"sub_ap","quantity":25}]}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(licensePayload))
	}))
	defer ts.Close()

	client := newTestClient(ts)

	payload, err := client.GetOrgLicensesSummary(context.TODO(), "token", "org-1")
	if err != nil {
		t.Fatalf("Got error; expected none: %s", err)
	}

	if string(payload) != licensePayload {
		t.Fatalf("Expected the license payload to be returned verbatim")
	}
}
