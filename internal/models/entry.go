package models

import (
	"encoding/json"
	"time"
)

// Entry - запись обобщенного CRUD-ресурса.
type Entry struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// EntryCreate - данные для создания записи.
type EntryCreate struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// EntryUpdate - частичное обновление: отсутствующие в запросе поля не меняются.
// Явный "description": null очищает описание.
type EntryUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	// DescriptionSet - поле description было в теле запроса.
	DescriptionSet bool `json:"-"`
}

// UnmarshalJSON заполняет поля и отмечает присутствие description.
func (u *EntryUpdate) UnmarshalJSON(data []byte) error {
	type plain EntryUpdate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*u = EntryUpdate(p)
	_, u.DescriptionSet = fields["description"]
	return nil
}

// HasDescription сообщает, нужно ли менять описание.
func (u EntryUpdate) HasDescription() bool {
	return u.DescriptionSet || u.Description != nil
}
