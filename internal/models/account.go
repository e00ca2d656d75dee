// Package models содержит доменные структуры каталога агентов: аккаунт и его тариф,
// агент с контрактом входных полей, запрос на запуск, результат запуска и сессию.
package models

import "time"

// Plan тариф аккаунта. Закрытый набор значений: PlanFree, PlanDesign, PlanAllAccess.
// Нулевое значение не является тарифом и получает отказ в доступе.
type Plan uint8

const (
	// PlanFree бесплатный тариф, полный доступ только пока действует пробный период.
	PlanFree Plan = iota + 1
	// PlanDesign доступ только к агентам категории Design.
	PlanDesign
	// PlanAllAccess доступ ко всему каталогу.
	PlanAllAccess
)

var planNames = map[Plan]string{
	PlanFree:      "free",
	PlanDesign:    "design",
	PlanAllAccess: "all-access",
}

// ParsePlan разбирает строковое значение тарифа из хранилища.
// Для неизвестной строки возвращает нулевой Plan и false.
func ParsePlan(s string) (Plan, bool) {
	for p, name := range planNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

func (p Plan) String() string {
	if name, ok := planNames[p]; ok {
		return name
	}
	return "unknown"
}

// MarshalText отдаёт тариф в JSON в том же виде, в каком он хранится.
func (p Plan) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Account представляет учётную запись пользователя каталога.
// TrialEndDate имеет смысл только для PlanFree.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Plan         Plan      `json:"plan"`
	TrialEndDate time.Time `json:"trial_end_date"`
	CreatedAt    time.Time `json:"created_at"`
}
