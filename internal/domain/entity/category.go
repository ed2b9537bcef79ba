package entity

import "github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"

// FieldSchema описывает один атрибут категории.
type FieldSchema struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label"`
	Required bool     `json:"required" yaml:"required"`
	Options  []string `json:"options" yaml:"options"`
}

func (f FieldSchema) HasOptions() bool {
	return len(f.Options) > 0
}

func (f FieldSchema) Allows(value string) bool {
	if !f.HasOptions() {
		return true
	}
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// CategorySchema - упорядоченный набор полей, допустимых для объявлений категории.
type CategorySchema struct {
	Slug   valueobject.CategorySlug `json:"slug" yaml:"slug"`
	Name   string                   `json:"name" yaml:"name"`
	Fields []FieldSchema            `json:"fields" yaml:"fields"`
}

func (s *CategorySchema) Field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

func (s *CategorySchema) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
