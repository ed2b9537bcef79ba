package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// ContextActorKey - ключ gin.Context с valueobject.Actor текущего запроса.
const ContextActorKey = "actor"

// TokenParser - проверка access токена, реализуется service.TokenManager.
type TokenParser interface {
	ParseAccess(token string) (uuid.UUID, string, error)
}

var errInvalidToken = apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден")

// AuthMiddleware проверяет Bearer токен и кладёт в контекст Actor.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := ActorFromToken(tokens, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFromToken разбирает токен в Actor. Используется и для ?token= у WebSocket.
func ActorFromToken(tokens TokenParser, raw string) (valueobject.Actor, error) {
	if strings.TrimSpace(raw) == "" {
		return valueobject.Actor{}, apperror.ErrUnauthorized
	}
	userID, role, err := tokens.ParseAccess(raw)
	if err != nil || userID == uuid.Nil {
		return valueobject.Actor{}, errInvalidToken
	}
	return valueobject.NewActor(userID, role)
}

// RequireRole пропускает только указанную роль. Ставится после AuthMiddleware.
func RequireRole(role valueobject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}
		if actor.Role != role {
			response.Abort(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (valueobject.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return valueobject.Actor{}, false
	}
	actor, ok := v.(valueobject.Actor)
	return actor, ok
}
