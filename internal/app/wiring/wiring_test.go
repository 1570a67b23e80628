package wiring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/metrics"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Env: "local",
		Wiki: config.Wiki{
			PageviewAPIURL:   apiURL,
			ActionAPIURL:     apiURL + "/w/api.php",
			UserAgent:        "test",
			Timeout:          5 * time.Second,
			Project:          "sv.wikipedia.org",
			FikaPage:         "Wikipedia:Fikarummet",
			QuestionsPage:    "Wikipedia:Fikarummet/Frågor",
			InviteesCategory: "Kategori:X",
			StartDate:        "20161209",
		},
		RedisConnection: config.RedisConnection{TTL: time.Minute},
	}
}

func TestBuild_WithoutCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[{"views":8},{"views":4}]}`))
	}))
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	deps, err := Build(context.Background(), testConfig(srv.URL), sl.NewDiscardLogger(), m)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	assert.Nil(t, deps.Cache)

	req := models.MetricsRequest{Project: "sv.wikipedia.org", Page: "Page/subpage", StartDate: "20161209", EndDate: "20161210"}
	views, err := deps.Service.GetPageviews(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(12), views)

	_, err = deps.Service.GetPageviews(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	n, err := testutil.GatherAndCount(reg, "fika_pageviews")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "untracked page must not create a gauge series")

	req.Page = "Wikipedia:Fikarummet"
	_, err = deps.Service.GetPageviews(context.Background(), req)
	require.NoError(t, err)

	n, err = testutil.GatherAndCount(reg, "fika_wikiapi_requests_total", "fika_pageviews")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBuild_WithCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[{"views":5}]}`))
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	cfg := testConfig(srv.URL)
	cfg.AddressRedis = mr.Addr()

	deps, err := Build(context.Background(), cfg, sl.NewDiscardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	require.NotNil(t, deps.Cache)

	req := models.MetricsRequest{Project: "sv.wikipedia.org", Page: "X", StartDate: "20161209", EndDate: "20161210"}
	for range 3 {
		views, err := deps.Service.GetPageviews(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), views)
	}
	assert.Equal(t, 1, calls)
}

func TestBuild_RedisUnavailable(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[{"views":3}]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.AddressRedis = "127.0.0.1:1"
	cfg.DialTimeout = 100 * time.Millisecond
	cfg.MaxRetries = -1

	deps, err := Build(context.Background(), cfg, sl.NewDiscardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	assert.Nil(t, deps.Cache)

	req := models.MetricsRequest{Project: "sv.wikipedia.org", Page: "X", StartDate: "20161209", EndDate: "20161210"}
	for range 2 {
		views, err := deps.Service.GetPageviews(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(3), views)
	}
	assert.Equal(t, 2, calls)
}

func TestSettings(t *testing.T) {
	s := Settings(testConfig("http://x"))
	assert.Equal(t, "Wikipedia:Fikarummet/Frågor", s.QuestionsPage)
	assert.Equal(t, "20161209", s.StartDate)
	assert.Equal(t, time.Minute, s.CacheTTL)
}
