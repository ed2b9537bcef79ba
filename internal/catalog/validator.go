package catalog

import (
	"sort"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type SchemaSource interface {
	SchemaFor(slug valueobject.CategorySlug) (*entity.CategorySchema, error)
}

// Validator проверяет атрибуты объявления по схеме категории. Хранилище не трогает.
type Validator struct {
	schemas SchemaSource
}

func NewValidator(schemas SchemaSource) *Validator {
	return &Validator{schemas: schemas}
}

// Validate возвращает первую найденную ошибку: сначала поля схемы по порядку,
// затем неизвестные ключи по алфавиту. Незаданным считается только отсутствующий ключ.
func (v *Validator) Validate(category valueobject.CategorySlug, attrs map[string]string) error {
	schema, err := v.schemas.SchemaFor(category)
	if err != nil {
		return err
	}
	return ValidateAgainst(schema, attrs)
}

func ValidateAgainst(schema *entity.CategorySchema, attrs map[string]string) error {
	if schema.Slug.IsSchemaFree() {
		return nil
	}

	for _, field := range schema.Fields {
		value, ok := attrs[field.Name]
		if !ok {
			if field.Required {
				return apperror.Validation(field.Name, "обязательный атрибут не заполнен")
			}
			continue
		}
		if value == "" && field.Required {
			return apperror.Validation(field.Name, "обязательный атрибут не заполнен")
		}
		if !field.Allows(value) {
			return apperror.Validation(field.Name, "значение не входит в список допустимых")
		}
	}

	unknown := make([]string, 0)
	for key := range attrs {
		if _, ok := schema.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperror.Validation(unknown[0], "атрибут не предусмотрен категорией")
	}
	return nil
}

// Clean убирает пустые значения, чтобы в хранилище попадали только заданные атрибуты.
func Clean(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
