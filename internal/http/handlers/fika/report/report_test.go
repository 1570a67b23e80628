package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Report(ctx context.Context, end time.Time) (*models.Report, error) {
	args := m.Called(ctx, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func TestReportHandler(t *testing.T) {
	today := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	rep := &models.Report{
		ID:        uuid.MustParse("5f1b2a8e-4a7c-4c1e-9f0a-2b6d9c3e8a11"),
		StartDate: "20161209",
		EndDate:   "20261018",
		Pageviews: []models.PageviewTotal{
			{Page: "Wikipedia:Fikarummet", Views: 30},
			{Page: "Wikipedia:Fikarummet/Frågor", Views: 5},
		},
		Questions: 2,
		Invitees:  42,
	}

	t.Run("defaults to today", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Report", mock.Anything, today).Return(rep, nil)

		h := New(sl.NewDiscardLogger(), svc)
		h.now = func() time.Time { return today }

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report", nil))

		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Status string        `json:"status"`
			Data   models.Report `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "OK", body.Status)
		assert.Equal(t, rep.ID, body.Data.ID)
		assert.Equal(t, rep.Pageviews, body.Data.Pageviews)
		assert.Equal(t, 2, body.Data.Questions)
		assert.Equal(t, int64(42), body.Data.Invitees)
		svc.AssertExpectations(t)
	})

	t.Run("explicit end date", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Report", mock.Anything, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)).Return(rep, nil)

		rr := httptest.NewRecorder()
		New(sl.NewDiscardLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report?end=20170101", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad end date", func(t *testing.T) {
		svc := new(MockService)

		rr := httptest.NewRecorder()
		New(sl.NewDiscardLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report?end=2017-01-01", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Report", mock.Anything, mock.Anything).Return(nil, errors.New("unexpected status: 500"))

		rr := httptest.NewRecorder()
		New(sl.NewDiscardLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"failed to build report"}`, rr.Body.String())
	})
}
