package pageviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fika-analyzer/internal/http/response"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetPageviews(ctx context.Context, req models.MetricsRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func TestPageviewsHandler(t *testing.T) {
	wantReq := models.MetricsRequest{
		Project:     "sv.wikipedia.org",
		Page:        "Wikipedia:Fikarummet/Frågor",
		StartDate:   "20161209",
		EndDate:     "20161231",
		Access:      models.AccessAll,
		Agent:       models.AgentUser,
		Granularity: models.GranularityDaily,
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "success",
			query: "project=sv.wikipedia.org&page=Wikipedia:Fikarummet%2FFr%C3%A5gor&start=20161209&end=20161231",
			setupMock: func(m *MockService) {
				m.On("GetPageviews", mock.Anything, wantReq).Return(int64(12), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing required params",
			query:          "page=X",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field Project is a required field",
		},
		{
			name:           "bad date",
			query:          "project=p&page=X&start=2016-12-09&end=20161231",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field Start can contain only numbers",
		},
		{
			name:           "project is not a hostname",
			query:          "project=x%3Aall-access%3Auser&page=Y&start=20161209&end=20161231",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field Project must be a hostname",
		},
		{
			name:           "unknown agent",
			query:          "project=p&page=X&start=20161209&end=20161231&agent=robot",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "field Agent must be one of",
		},
		{
			name:  "upstream failure",
			query: "project=p&page=X&start=20161209&end=20161231",
			setupMock: func(m *MockService) {
				m.On("GetPageviews", mock.Anything, mock.Anything).Return(int64(0), errors.New("unexpected status: 404 Not Found"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "failed to fetch pageviews",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/pageviews?"+tt.query, nil)
			rr := httptest.NewRecorder()

			New(sl.NewDiscardLogger(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.expectedError != "" {
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Contains(t, resp.Error, tt.expectedError)
			} else {
				assert.Equal(t, response.StatusOK, resp.Status)
				data := resp.Data.(map[string]any)
				assert.EqualValues(t, 12, data["pageviews"])
				assert.Equal(t, "Wikipedia:Fikarummet/Frågor", data["page"])
				assert.Equal(t, "user", data["agent"])
			}
			svc.AssertExpectations(t)
		})
	}
}
