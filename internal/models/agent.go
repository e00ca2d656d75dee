package models

import (
	"errors"
	"slices"
	"time"
)

// Category категория агента в каталоге.
type Category string

const (
	CategoryDesign Category = "Design"
	CategoryVideo  Category = "Video"
	CategoryOffice Category = "Office"
)

// FieldType тип поля формы агента.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldSelect FieldType = "select"
)

// ErrInvalidContract возвращается, если контракт агента не объявляет обязательные поля.
var ErrInvalidContract = errors.New("input contract must declare input and style fields")

// Field описывает одно поле формы запуска агента.
type Field struct {
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Required    bool      `json:"required"`
}

// HasOption сообщает, входит ли значение в перечень вариантов select-поля.
// Для текстовых полей и select без вариантов подходит любое значение.
func (f *Field) HasOption(value string) bool {
	if f == nil || f.Type != FieldSelect || len(f.Options) == 0 {
		return true
	}
	return slices.Contains(f.Options, value)
}

// InputFields набор полей контракта. Text необязателен.
type InputFields struct {
	Input *Field `json:"input"`
	Style *Field `json:"style"`
	Text  *Field `json:"text,omitempty"`
}

// InputContract объявленный контракт входных данных агента.
type InputContract struct {
	Fields InputFields `json:"fields"`
}

// Validate проверяет, что контракт объявляет как минимум поля input и style.
func (c InputContract) Validate() error {
	if c.Fields.Input == nil || c.Fields.Style == nil {
		return ErrInvalidContract
	}
	return nil
}

// Agent внешний шаблон задачи, доступный в каталоге.
// Slug уникален и не меняется после создания.
type Agent struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Category      Category      `json:"category"`
	Endpoint      string        `json:"-"`
	Description   string        `json:"description"`
	InputContract InputContract `json:"input_schema"`
	CreatedAt     time.Time     `json:"created_at"`
}
