package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Categories []entity.CategorySchema `yaml:"categories"`
}

// Registry - справочник схем категорий. После загрузки только читается,
// поэтому безопасен для конкурентного использования без блокировок.
type Registry struct {
	schemas map[valueobject.CategorySlug]*entity.CategorySchema
	ordered []*entity.CategorySchema
}

// Load читает каталог из файла, а при пустом пути берёт встроенный.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse category catalog: %w", err)
	}
	return NewRegistry(file.Categories)
}

// NewRegistry проверяет схемы и строит справочник.
// Категория missing всегда присутствует и всегда без полей.
func NewRegistry(schemas []entity.CategorySchema) (*Registry, error) {
	r := &Registry{schemas: make(map[valueobject.CategorySlug]*entity.CategorySchema, len(schemas)+1)}

	for i := range schemas {
		s := schemas[i]
		if !s.Slug.IsKnown() {
			return nil, fmt.Errorf("category catalog: unknown slug %q", s.Slug)
		}
		if _, dup := r.schemas[s.Slug]; dup {
			return nil, fmt.Errorf("category catalog: duplicate slug %q", s.Slug)
		}
		if s.Slug.IsSchemaFree() {
			s.Fields = nil
		}
		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("category catalog: %s has a field without name", s.Slug)
			}
			if _, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("category catalog: %s has duplicate field %q", s.Slug, f.Name)
			}
			seen[f.Name] = struct{}{}
		}
		if s.Name == "" {
			s.Name = string(s.Slug)
		}
		r.schemas[s.Slug] = &s
		r.ordered = append(r.ordered, &s)
	}

	if _, ok := r.schemas[valueobject.CategoryMissing]; !ok {
		s := &entity.CategorySchema{Slug: valueobject.CategoryMissing, Name: string(valueobject.CategoryMissing)}
		r.schemas[s.Slug] = s
		r.ordered = append(r.ordered, s)
	}
	return r, nil
}

// SchemaFor возвращает схему категории. Возвращаемое значение нельзя изменять.
func (r *Registry) SchemaFor(slug valueobject.CategorySlug) (*entity.CategorySchema, error) {
	s, ok := r.schemas[slug]
	if !ok {
		return nil, apperror.UnknownCategory(string(slug))
	}
	return s, nil
}

// All возвращает схемы в порядке каталога.
func (r *Registry) All() []*entity.CategorySchema {
	out := make([]*entity.CategorySchema, len(r.ordered))
	copy(out, r.ordered)
	return out
}
