package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/handlers"
	"github.com/haradejene/yegara-web-lms/internal/model"
	svcmocks "github.com/haradejene/yegara-web-lms/internal/service/mocks"
)

// httpRequestDetails describes one request sent to the test server.
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// httpResponseExpectations holds what the response must look like.
type httpResponseExpectations struct {
	ExpectedCode      int
	ExpectedErrorCode string
}

// sendRequest sends the request and asserts the status code and, when set, the error code.
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectations httpResponseExpectations) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if details.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	assert.Equal(t, expectations.ExpectedCode, resp.StatusCode, "Status code mismatch, body: %s", string(respBodyBytes))
	if expectations.ExpectedErrorCode != "" {
		verifyErrorResponse(t, respBodyBytes, expectations.ExpectedErrorCode)
	}
	return respBodyBytes
}

// verifyErrorResponse checks the {"error":{"code":...}} body.
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "error body is not JSON: %s", string(bodyBytes))
	assert.Equal(t, expectedCode, errResp.Error.Code, "message: %s", errResp.Error.Message)
}

func decodeBody(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, dst), "body: %s", string(body))
}

// serviceMocks holds one mock per service behind the router.
type serviceMocks struct {
	auth       *svcmocks.AuthService
	enrollment *svcmocks.EnrollmentService
	course     *svcmocks.CourseService
	progress   *svcmocks.ProgressService
	profile    *svcmocks.ProfileService
	analytics  *svcmocks.AnalyticsService
	settings   *svcmocks.SettingsService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupMockServer starts the full router (header auth) backed by service mocks.
func setupMockServer(t *testing.T) (*httptest.Server, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		auth:       svcmocks.NewAuthService(t),
		enrollment: svcmocks.NewEnrollmentService(t),
		course:     svcmocks.NewCourseService(t),
		progress:   svcmocks.NewProgressService(t),
		profile:    svcmocks.NewProfileService(t),
		analytics:  svcmocks.NewAnalyticsService(t),
		settings:   svcmocks.NewSettingsService(t),
	}
	logger := discardLogger()
	cfg := &config.Config{Auth: config.AuthConfig{Enabled: false}}

	rt := &handlers.Router{
		Config:     cfg,
		Logger:     logger,
		Auth:       handlers.NewAuthHandler(m.auth, logger),
		Enrollment: handlers.NewEnrollmentHandler(m.enrollment, logger),
		Course:     handlers.NewCourseHandler(m.course, m.progress, logger),
		Profile:    handlers.NewProfileHandler(m.profile, m.progress, 1<<10, logger),
		Admin:      handlers.NewAdminHandler(m.course, m.progress, m.profile, m.analytics, m.settings, logger),
	}
	server := httptest.NewServer(rt.Handler())
	t.Cleanup(server.Close)
	return server, m
}

func memberHeaders(id uuid.UUID) map[string]string {
	return map[string]string{"X-User-ID": id.String(), "X-User-Role": model.RoleMember}
}

func adminHeaders(id uuid.UUID) map[string]string {
	return map[string]string{"X-User-ID": id.String(), "X-User-Role": model.RoleAdmin}
}
