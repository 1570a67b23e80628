// Package services содержит бизнес-логику подсчёта метрик Фикарума:
// просмотры страниц, число вопросов и число приглашённых.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
	"github.com/magabrotheeeer/fika-analyzer/internal/wikiapi"
)

// questionLevel каждый вопрос на странице вопросов является заголовком второго уровня.
const questionLevel = 2

// ErrUnexpectedCategoryShape query.pages содержит не ровно одну страницу.
var ErrUnexpectedCategoryShape = errors.New("unexpected category result shape")

// WikiClient описывает запросы к API Википедии.
type WikiClient interface {
	SendPageviewRequest(ctx context.Context, req models.MetricsRequest) (*wikiapi.PageviewResponse, error)
	SendSectionsRequest(ctx context.Context, page string) (*wikiapi.SectionsResponse, error)
	SendCategoryRequest(ctx context.Context, category string) (*wikiapi.CategoryResponse, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Recorder получает последние посчитанные значения (например, для Prometheus).
type Recorder interface {
	ObservePageviews(project, page string, views int64)
	ObserveQuestions(n int)
	ObserveInvitees(n int64)
}

// Settings страницы и категория, по которым считаются метрики.
type Settings struct {
	Project          string
	FikaPage         string
	QuestionsPage    string
	InviteesCategory string
	StartDate        string
	CacheTTL         time.Duration
}

// Service считает метрики Фикарума. Кеш и Recorder необязательны.
type Service struct {
	client   WikiClient
	cache    Cache
	recorder Recorder
	settings Settings
	log      *slog.Logger
	now      func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithCache включает кеширование результатов.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithRecorder подключает запись метрик.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService создает новый экземпляр Service.
func NewService(client WikiClient, settings Settings, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		client:   client,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPageviews возвращает сумму просмотров страницы за период.
// Пустой ряд даёт 0.
func (s *Service) GetPageviews(ctx context.Context, req models.MetricsRequest) (int64, error) {
	const op = "services.fika.GetPageviews"
	log := s.log.With(slog.String("op", op))

	req = req.WithDefaults()
	cacheKey := req.CacheKey()

	var pageviews int64
	if s.fromCache(ctx, cacheKey, &pageviews) {
		log.Debug("pageviews taken from cache", slog.String("key", cacheKey))
		s.observePageviews(req, pageviews)
		return pageviews, nil
	}

	resp, err := s.client.SendPageviewRequest(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || resp.Items == nil {
		return 0, fmt.Errorf("%s: %w: no items", op, wikiapi.ErrMalformedResponse)
	}
	for _, item := range *resp.Items {
		pageviews += item.Views
	}
	log.Info("total pageviews", slog.String("page", req.Page), slog.Int64("pageviews", pageviews))

	s.toCache(ctx, cacheKey, pageviews)
	s.observePageviews(req, pageviews)
	return pageviews, nil
}

// GetNumberOfQuestions считает вопросы на странице вопросов: каждый вопрос
// создаёт раздел второго уровня, подразделы не учитываются.
func (s *Service) GetNumberOfQuestions(ctx context.Context) (int, error) {
	const op = "services.fika.GetNumberOfQuestions"
	log := s.log.With(slog.String("op", op))

	cacheKey := "questions:" + s.settings.QuestionsPage
	var questions int
	if s.fromCache(ctx, cacheKey, &questions) {
		log.Debug("questions taken from cache", slog.String("key", cacheKey))
		s.observeQuestions(questions)
		return questions, nil
	}

	resp, err := s.client.SendSectionsRequest(ctx, s.settings.QuestionsPage)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || resp.Parse == nil {
		return 0, fmt.Errorf("%s: %w: no parse result", op, wikiapi.ErrMalformedResponse)
	}
	questions, err = countQuestions(resp.Parse.Sections)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("number of questions", slog.Int("questions", questions))

	s.toCache(ctx, cacheKey, questions)
	s.observeQuestions(questions)
	return questions, nil
}

// GetNumberOfInvitees возвращает число участников категории приглашённых:
// каждый получивший приглашение попадает в неё.
func (s *Service) GetNumberOfInvitees(ctx context.Context) (int64, error) {
	const op = "services.fika.GetNumberOfInvitees"
	log := s.log.With(slog.String("op", op))

	cacheKey := "invitees:" + s.settings.InviteesCategory
	var invitees int64
	if s.fromCache(ctx, cacheKey, &invitees) {
		log.Debug("invitees taken from cache", slog.String("key", cacheKey))
		s.observeInvitees(invitees)
		return invitees, nil
	}

	resp, err := s.client.SendCategoryRequest(ctx, s.settings.InviteesCategory)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || resp.Query == nil {
		return 0, fmt.Errorf("%s: %w: no query result", op, wikiapi.ErrMalformedResponse)
	}
	invitees, err = categoryPages(resp.Query.Pages)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("number of invitees", slog.Int64("invitees", invitees))

	s.toCache(ctx, cacheKey, invitees)
	s.observeInvitees(invitees)
	return invitees, nil
}

// Report собирает сводку: просмотры главной страницы и страницы вопросов
// с даты начала по end, число вопросов и приглашённых. Первая ошибка прерывает сбор.
func (s *Service) Report(ctx context.Context, end time.Time) (*models.Report, error) {
	const op = "services.fika.Report"

	endDate := end.Format(models.DateLayout)
	report := &models.Report{
		ID:          uuid.New(),
		GeneratedAt: s.now().UTC(),
		StartDate:   s.settings.StartDate,
		EndDate:     endDate,
	}

	for _, page := range []string{s.settings.FikaPage, s.settings.QuestionsPage} {
		views, err := s.GetPageviews(ctx, models.MetricsRequest{
			Project:   s.settings.Project,
			Page:      page,
			StartDate: s.settings.StartDate,
			EndDate:   endDate,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		report.Pageviews = append(report.Pageviews, models.PageviewTotal{Page: page, Views: views})
	}

	questions, err := s.GetNumberOfQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Questions = questions

	invitees, err := s.GetNumberOfInvitees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Invitees = invitees

	s.log.Info("report generated", slog.String("id", report.ID.String()))
	return report, nil
}

func countQuestions(sections []wikiapi.Section) (int, error) {
	count := 0
	for _, section := range sections {
		level, err := strconv.Atoi(section.Level)
		if err != nil {
			return 0, fmt.Errorf("%w: section %q has level %q", wikiapi.ErrMalformedResponse, section.Line, section.Level)
		}
		if level == questionLevel {
			count++
		}
	}
	return count, nil
}

func categoryPages(pages map[string]wikiapi.CategoryPage) (int64, error) {
	if len(pages) != 1 {
		return 0, fmt.Errorf("%w: expected 1 page, got %d", ErrUnexpectedCategoryShape, len(pages))
	}
	for _, page := range pages {
		// Категория без участников или несуществующая приходит без categoryinfo.
		if page.CategoryInfo == nil {
			return 0, nil
		}
		return page.CategoryInfo.Pages, nil
	}
	return 0, nil
}

func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.settings.CacheTTL); err != nil {
		s.log.Warn("failed to cache value", slog.String("key", key), sl.Err(err))
	}
}

// observePageviews пишет в метрики только отслеживаемые страницы проекта,
// иначе произвольные запросы плодили бы серии gauge без ограничений.
func (s *Service) observePageviews(req models.MetricsRequest, views int64) {
	if s.recorder == nil || !s.tracked(req) {
		return
	}
	s.recorder.ObservePageviews(req.Project, req.Page, views)
}

func (s *Service) tracked(req models.MetricsRequest) bool {
	if req.Project != s.settings.Project {
		return false
	}
	return req.Page == s.settings.FikaPage || req.Page == s.settings.QuestionsPage
}

func (s *Service) observeQuestions(n int) {
	if s.recorder != nil {
		s.recorder.ObserveQuestions(n)
	}
}

func (s *Service) observeInvitees(n int64) {
	if s.recorder != nil {
		s.recorder.ObserveInvitees(n)
	}
}
