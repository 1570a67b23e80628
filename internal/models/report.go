package models

import (
	"time"

	"github.com/google/uuid"
)

// PageviewTotal сумма просмотров одной страницы за период.
type PageviewTotal struct {
	Page  string `json:"page"`
	Views int64  `json:"views"`
}

// Report сводка по Фикарумму: просмотры, вопросы и приглашённые.
type Report struct {
	ID          uuid.UUID       `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Pageviews   []PageviewTotal `json:"pageviews"`
	Questions   int             `json:"questions"`
	Invitees    int64           `json:"invitees"`
}
