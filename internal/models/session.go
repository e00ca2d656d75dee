package models

import "time"

// Session подтверждение аутентификации, выданное внешним identity provider.
// Живёт в пределах одного запроса.
type Session struct {
	AccountID string
	Email     string
	ExpiresAt time.Time
}
