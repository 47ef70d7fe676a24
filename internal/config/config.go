package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ENV_PREFIX = "MIST_COMPARISON"

	URL_APP_NAME                   = "URL_App_Name"
	URL_PATH_PREFIX                = "URL_Path_Prefix"
	URL_BASE_PATH                  = "URL_Base_Path"
	OPENAPI_SPEC_FILE_PATH         = "OpenAPI_Spec_File_Path"
	HTTP_SHUTDOWN_TIMEOUT          = "HTTP_Shutdown_Timeout"
	SERVICE_TO_SERVICE_CREDENTIALS = "Service_To_Service_Credentials"
	PROFILE                        = "Enable_Profile"
	MIST_API_TOKEN                 = "Api_Token"
	MIST_API_HOST                  = "Api_Host"
	MIST_ORG_ID                    = "Org_Id"
	MIST_CLIENT_TIMEOUT            = "Client_Timeout"
	DEFAULT_MIST_API_HOST          = "api.mist.com"
)

type Config struct {
	UrlAppName                  string
	UrlPathPrefix               string
	UrlBasePath                 string
	OpenApiSpecFilePath         string
	HttpShutdownTimeout         time.Duration
	ServiceToServiceCredentials map[string]interface{}
	Profile                     bool
	MistApiToken                string
	MistApiHost                 string
	MistOrgId                   string
	MistClientTimeout           time.Duration
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", URL_PATH_PREFIX, c.UrlPathPrefix)
	fmt.Fprintf(&b, "%s: %s\n", URL_APP_NAME, c.UrlAppName)
	fmt.Fprintf(&b, "%s: %s\n", URL_BASE_PATH, c.UrlBasePath)
	fmt.Fprintf(&b, "%s: %s\n", OPENAPI_SPEC_FILE_PATH, c.OpenApiSpecFilePath)
	fmt.Fprintf(&b, "%s: %s\n", HTTP_SHUTDOWN_TIMEOUT, c.HttpShutdownTimeout)
	fmt.Fprintf(&b, "%s: %t\n", PROFILE, c.Profile)
	fmt.Fprintf(&b, "%s: %s\n", MIST_API_HOST, c.MistApiHost)
	fmt.Fprintf(&b, "%s: %s\n", MIST_ORG_ID, c.MistOrgId)
	fmt.Fprintf(&b, "%s: %s\n", MIST_CLIENT_TIMEOUT, c.MistClientTimeout)
	// The api token list never goes in the config dump

	return b.String()
}

func GetConfig() *Config {
	options := viper.New()

	options.SetDefault(URL_PATH_PREFIX, "api")
	options.SetDefault(URL_APP_NAME, "mist-org-licensing-comparison")
	options.SetDefault(OPENAPI_SPEC_FILE_PATH, "/opt/app-root/src/api/api.spec.file")
	options.SetDefault(HTTP_SHUTDOWN_TIMEOUT, 2)
	options.SetDefault(SERVICE_TO_SERVICE_CREDENTIALS, "")
	options.SetDefault(PROFILE, false)
	options.SetDefault(MIST_API_TOKEN, "")
	options.SetDefault(MIST_API_HOST, DEFAULT_MIST_API_HOST)
	options.SetDefault(MIST_ORG_ID, "")
	options.SetDefault(MIST_CLIENT_TIMEOUT, 30)

	options.SetEnvPrefix(ENV_PREFIX)
	options.AutomaticEnv()

	return &Config{
		UrlPathPrefix:               options.GetString(URL_PATH_PREFIX),
		UrlAppName:                  options.GetString(URL_APP_NAME),
		UrlBasePath:                 buildUrlBasePath(options.GetString(URL_PATH_PREFIX), options.GetString(URL_APP_NAME)),
		OpenApiSpecFilePath:         options.GetString(OPENAPI_SPEC_FILE_PATH),
		HttpShutdownTimeout:         options.GetDuration(HTTP_SHUTDOWN_TIMEOUT) * time.Second,
		ServiceToServiceCredentials: options.GetStringMap(SERVICE_TO_SERVICE_CREDENTIALS),
		Profile:                     options.GetBool(PROFILE),
		MistApiToken:                options.GetString(MIST_API_TOKEN),
		MistApiHost:                 options.GetString(MIST_API_HOST),
		MistOrgId:                   options.GetString(MIST_ORG_ID),
		MistClientTimeout:           options.GetDuration(MIST_CLIENT_TIMEOUT) * time.Second,
	}
}

func buildUrlBasePath(pathPrefix string, appName string) string {
	return fmt.Sprintf("/%s/%s/v1", pathPrefix, appName)
}
