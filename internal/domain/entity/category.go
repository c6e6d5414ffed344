package entity

import "time"

// Field types an admin can pick when defining a category's ad form.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeTextarea = "textarea"
	FieldTypeDate     = "date"
)

// FieldDefinition describes one admin-defined form field that sellers fill
// in when posting an ad in this category.
type FieldDefinition struct {
	Name        string   `json:"name" firestore:"name"`
	Label       string   `json:"label" firestore:"label"`
	Type        string   `json:"type" firestore:"type"`
	Required    bool     `json:"required" firestore:"required"`
	Options     []string `json:"options,omitempty" firestore:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" firestore:"placeholder,omitempty"`
}

type Category struct {
	ID        string            `json:"id" firestore:"id"`
	Name      string            `json:"name" firestore:"name"`
	Slug      string            `json:"slug" firestore:"slug"`
	Icon      string            `json:"icon,omitempty" firestore:"icon,omitempty"`
	ParentID  string            `json:"parent_id,omitempty" firestore:"parentId,omitempty"`
	Fields    []FieldDefinition `json:"fields" firestore:"fields"`
	Status    string            `json:"status" firestore:"status"`
	CreatedAt time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time         `json:"updated_at" firestore:"updatedAt"`
}

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect, FieldTypeCheckbox, FieldTypeTextarea, FieldTypeDate:
		return true
	}
	return false
}
