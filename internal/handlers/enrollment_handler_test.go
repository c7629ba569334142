package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

func TestEnrollmentHandler_Enroll(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	enrollment := &model.Enrollment{
		ID:           uuid.New(),
		UserID:       userID,
		CourseID:     courseID,
		EnrolledAt:   time.Now().UTC(),
		LastAccessed: time.Now().UTC(),
	}

	tests := []struct {
		name         string
		body         interface{}
		headers      map[string]string
		setupMock    func(m *serviceMocks)
		expectations httpResponseExpectations
	}{
		{
			name:    "Success - JSON body",
			body:    map[string]string{"courseId": courseID.String()},
			headers: memberHeaders(userID),
			setupMock: func(m *serviceMocks) {
				m.enrollment.On("Enroll", mock.Anything, userID, courseID).Return(enrollment, nil).Once()
			},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusOK},
		},
		{
			name:         "Failure - unauthenticated",
			body:         map[string]string{"courseId": courseID.String()},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusUnauthorized, ExpectedErrorCode: model.CodeUnauthenticated},
		},
		{
			name:         "Failure - missing courseId",
			body:         map[string]string{},
			headers:      memberHeaders(userID),
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: model.CodeValidation},
		},
		{
			name:         "Failure - malformed courseId",
			body:         map[string]string{"courseId": "not-a-uuid"},
			headers:      memberHeaders(userID),
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: model.CodeValidation},
		},
		{
			name:         "Failure - malformed JSON",
			body:         `{"courseId":`,
			headers:      memberHeaders(userID),
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: model.CodeInvalidBody},
		},
		{
			name:    "Failure - already enrolled",
			body:    map[string]string{"courseId": courseID.String()},
			headers: memberHeaders(userID),
			setupMock: func(m *serviceMocks) {
				m.enrollment.On("Enroll", mock.Anything, userID, courseID).
					Return(nil, model.NewAppError(model.CodeAlreadyEnrolled, "You are already enrolled in this course.", "courseId", model.ErrInvalidInput)).Once()
			},
			expectations: httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: model.CodeAlreadyEnrolled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, m := setupMockServer(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}
			body := sendRequest(t, server, httpRequestDetails{
				Method:  http.MethodPost,
				Path:    "/api/enroll",
				Body:    tt.body,
				Headers: tt.headers,
			}, tt.expectations)

			if tt.expectations.ExpectedCode == http.StatusOK {
				var resp model.EnrollResponse
				decodeBody(t, body, &resp)
				assert.True(t, resp.Success)
				require.NotNil(t, resp.Enrollment)
				assert.Equal(t, enrollment.ID, resp.Enrollment.ID)
			}
		})
	}
}

func TestEnrollmentHandler_Enroll_Form(t *testing.T) {
	server, m := setupMockServer(t)
	userID := uuid.New()
	courseID := uuid.New()
	m.enrollment.On("Enroll", mock.Anything, userID, courseID).
		Return(&model.Enrollment{ID: uuid.New(), UserID: userID, CourseID: courseID}, nil).Once()

	form := url.Values{"courseId": {courseID.String()}}
	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/enroll", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range memberHeaders(userID) {
		req.Header.Set(k, v)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
