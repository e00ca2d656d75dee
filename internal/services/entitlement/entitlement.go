// Package entitlement решает, может ли аккаунт пользоваться агентами категории
// в данный момент, исходя из тарифа и пробного периода.
package entitlement

import (
	"time"

	"github.com/0xchsh/by-computer/internal/models"
)

// Decision результат проверки доступа.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// TrialActive сообщает, действует ли пробный период. Для платных тарифов всегда true.
func TrialActive(account models.Account, now time.Time) bool {
	if account.Plan != models.PlanFree {
		return true
	}
	return now.Before(account.TrialEndDate)
}

// Decide возвращает решение о доступе аккаунта к категории в момент now.
//
// Пробный период проверяется раньше правил тарифа: активный триал открывает весь каталог,
// истёкший бесплатный тариф закрывает всё и не проверяется правилами платных тарифов.
// Неизвестная категория не совпадает ни с одним правилом и получает Deny.
func Decide(account models.Account, category models.Category, now time.Time) Decision {
	switch account.Plan {
	case models.PlanFree:
		return Decision(now.Before(account.TrialEndDate))
	case models.PlanDesign:
		return Decision(category == models.CategoryDesign)
	case models.PlanAllAccess:
		return Allow
	default:
		return Deny
	}
}
