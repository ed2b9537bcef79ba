package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
)

// CategoryCatalog - каталог схем, по которому работает валидатор атрибутов.
type CategoryCatalog interface {
	SchemaFor(slug valueobject.CategorySlug) (*entity.CategorySchema, error)
	All() []*entity.CategorySchema
}

type CategoryHandler struct {
	catalog CategoryCatalog
}

func NewCategoryHandler(catalog CategoryCatalog) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List обрабатывает GET /api/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	response.Success(c, gin.H{"categories": h.catalog.All()})
}

// Get обрабатывает GET /api/categories/:slug.
func (h *CategoryHandler) Get(c *gin.Context) {
	schema, err := h.catalog.SchemaFor(valueobject.CategorySlug(c.Param("slug")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, schema)
}
