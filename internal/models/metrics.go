// Package models содержит доменные структуры запросов метрик и итогового отчёта.
package models

import (
	"net/url"
	"strings"
)

const (
	// AccessAll учитывает просмотры со всех типов доступа.
	AccessAll = "all-access"
	// AgentUser учитывает только просмотры пользователей (без ботов и пауков).
	AgentUser = "user"
	// GranularityDaily разбивает просмотры по дням.
	GranularityDaily = "daily"
	// DateLayout формат дат API просмотров (YYYYMMDD).
	DateLayout = "20060102"
)

// MetricsRequest описывает срез статистики просмотров для одной страницы.
// Даты передаются в формате YYYYMMDD и не проверяются: за корректность
// диапазона отвечает вызывающая сторона.
type MetricsRequest struct {
	// Project проект вики, например sv.wikipedia.org.
	Project string `json:"project" validate:"required"`
	// Page название страницы, может содержать "/".
	Page      string `json:"page" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	// Access, Agent и Granularity необязательны, см. WithDefaults.
	Access      string `json:"access,omitempty"`
	Agent       string `json:"agent,omitempty"`
	Granularity string `json:"granularity,omitempty"`
}

// WithDefaults возвращает копию запроса с заполненными значениями по умолчанию.
func (r MetricsRequest) WithDefaults() MetricsRequest {
	if r.Access == "" {
		r.Access = AccessAll
	}
	if r.Agent == "" {
		r.Agent = AgentUser
	}
	if r.Granularity == "" {
		r.Granularity = GranularityDaily
	}
	return r
}

// CacheKey возвращает ключ кеша для запроса. Поля экранируются, поэтому ":"
// в названии страницы или проекте не склеивает разные запросы в один ключ.
func (r MetricsRequest) CacheKey() string {
	r = r.WithDefaults()
	parts := []string{r.Project, r.Access, r.Agent, r.Page, r.Granularity, r.StartDate, r.EndDate}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return "pageviews:" + strings.Join(parts, ":")
}
