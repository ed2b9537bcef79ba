package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/http/middleware"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// Paging - размеры страниц из конфигурации.
type Paging struct {
	DefaultPerPage int
	MaxPerPage     int
}

func (p Paging) request(c *gin.Context) valueobject.PageRequest {
	return valueobject.NewPageRequest(
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "per_page", 0),
		p.DefaultPerPage,
		p.MaxPerPage,
	)
}

func actorFrom(c *gin.Context) (valueobject.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return valueobject.Actor{}, apperror.ErrUnauthorized
	}
	return actor, nil
}

// parseID читает числовой параметр пути. Формат уже проверен IDValidator, но хэндлер не полагается на это.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.ErrCodeBadRequest, "некорректный идентификатор "+name)
	}
	return id, nil
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseFloatQuery(c *gin.Context, key string) (*float64, error) {
	valueStr := strings.TrimSpace(c.Query(key))
	if valueStr == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || value < 0 {
		return nil, apperror.Validation(key, "ожидается неотрицательное число")
	}
	return &value, nil
}

// listingFilter собирает фильтр выдачи из query. Статус читается только там, где он разрешён.
func listingFilter(c *gin.Context, withStatus bool) (repository.ListingFilter, error) {
	filter := repository.ListingFilter{
		Governorate: strings.TrimSpace(c.Query("governorate")),
		City:        strings.TrimSpace(c.Query("city")),
		Search:      strings.TrimSpace(c.Query("search")),
		Sort:        repository.ParseListingSort(c.Query("sort")),
	}

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		slug := valueobject.CategorySlug(raw)
		if !slug.IsKnown() {
			return filter, apperror.UnknownCategory(raw)
		}
		filter.Category = slug
	}

	var err error
	if filter.MinPrice, err = parseFloatQuery(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parseFloatQuery(c, "max_price"); err != nil {
		return filter, err
	}

	if withStatus {
		if raw := strings.TrimSpace(c.Query("status")); raw != "" {
			status, err := valueobject.ParseListingStatus(raw)
			if err != nil {
				return filter, err
			}
			filter.Status = status
		}
	}
	return filter, nil
}

// bindJSON допускает пустое тело для запросов, где все поля необязательны.
func bindJSON(c *gin.Context, dst interface{}, allowEmpty bool) error {
	if allowEmpty && c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректное тело запроса")
	}
	return nil
}
