package wikiapi

// PageviewItem одна точка ряда просмотров из REST API Wikimedia.
type PageviewItem struct {
	Project     string `json:"project"`
	Article     string `json:"article"`
	Granularity string `json:"granularity"`
	Timestamp   string `json:"timestamp"`
	Access      string `json:"access"`
	Agent       string `json:"agent"`
	Views       int64  `json:"views"`
}

// PageviewResponse ответ per-article. Items равен nil, если ключ отсутствует в ответе.
type PageviewResponse struct {
	Items *[]PageviewItem `json:"items"`
}

// Section заголовок в оглавлении страницы. Level приходит строкой ("2").
type Section struct {
	TocLevel int    `json:"toclevel"`
	Level    string `json:"level"`
	Line     string `json:"line"`
	Number   string `json:"number"`
	Index    string `json:"index"`
	Anchor   string `json:"anchor"`
}

// ParseResult содержимое ключа "parse" ответа action=parse.
type ParseResult struct {
	Title    string    `json:"title"`
	PageID   int       `json:"pageid"`
	Sections []Section `json:"sections"`
}

// SectionsResponse ответ action=parse&prop=sections.
type SectionsResponse struct {
	Parse *ParseResult `json:"parse"`
	Error *APIError    `json:"error,omitempty"`
}

// CategoryInfo счётчики участников категории.
type CategoryInfo struct {
	Size    int64 `json:"size"`
	Pages   int64 `json:"pages"`
	Files   int64 `json:"files"`
	Subcats int64 `json:"subcats"`
}

// CategoryPage страница из query.pages. Для несуществующей категории
// MediaWiki возвращает отрицательный ключ и CategoryInfo == nil.
type CategoryPage struct {
	PageID       int           `json:"pageid"`
	NS           int           `json:"ns"`
	Title        string        `json:"title"`
	CategoryInfo *CategoryInfo `json:"categoryinfo"`
}

// QueryResult содержимое ключа "query". Ключи Pages это идентификаторы страниц,
// заранее неизвестные.
type QueryResult struct {
	Pages map[string]CategoryPage `json:"pages"`
}

// CategoryResponse ответ action=query&prop=categoryinfo.
type CategoryResponse struct {
	Query *QueryResult `json:"query"`
	Error *APIError    `json:"error,omitempty"`
}

// APIError тело ошибки action API: {"error": {"code": ..., "info": ...}}.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
