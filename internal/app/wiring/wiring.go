// Package wiring собирает сервис метрик Фикарума из конфигурации:
// клиент API Википедии, необязательный redis-кеш и метрики Prometheus.
package wiring

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/fika-analyzer/internal/cache"
	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/metrics"
	services "github.com/magabrotheeeer/fika-analyzer/internal/services/fika"
	"github.com/magabrotheeeer/fika-analyzer/internal/wikiapi"
)

// Deps готовый сервис и ресурсы, которые нужно закрыть.
type Deps struct {
	Client  *wikiapi.Client
	Service *services.Service
	Cache   *cache.Cache
}

// Build создаёт зависимости. m может быть nil, тогда метрики не пишутся.
// Недоступный redis не считается ошибкой: сервис работает без кеша.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*Deps, error) {
	hc := &http.Client{Timeout: cfg.Wiki.Timeout}
	if m != nil {
		hc = m.InstrumentClient(hc)
	}

	client := wikiapi.NewClient(log,
		wikiapi.WithHTTPClient(hc),
		wikiapi.WithPageviewURL(cfg.Wiki.PageviewAPIURL),
		wikiapi.WithActionURL(cfg.Wiki.ActionAPIURL),
		wikiapi.WithUserAgent(cfg.Wiki.UserAgent),
	)

	deps := &Deps{Client: client}

	var opts []services.Option
	if cfg.CacheEnabled() {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			log.Warn("redis unavailable, cache disabled",
				slog.String("address", cfg.AddressRedis), sl.Err(err))
		} else {
			log.Info("redis cache enabled", slog.String("address", cfg.AddressRedis))
			deps.Cache = c
			opts = append(opts, services.WithCache(c))
		}
	}
	if m != nil {
		opts = append(opts, services.WithRecorder(m))
	}

	deps.Service = services.NewService(client, Settings(cfg), log, opts...)
	return deps, nil
}

// Settings переводит конфигурацию в настройки сервиса.
func Settings(cfg *config.Config) services.Settings {
	return services.Settings{
		Project:          cfg.Wiki.Project,
		FikaPage:         cfg.Wiki.FikaPage,
		QuestionsPage:    cfg.Wiki.QuestionsPage,
		InviteesCategory: cfg.Wiki.InviteesCategory,
		StartDate:        cfg.Wiki.StartDate,
		CacheTTL:         cfg.RedisConnection.TTL,
	}
}

// Close освобождает ресурсы.
func (d *Deps) Close() error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Close()
}
