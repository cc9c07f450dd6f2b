package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenderhub/tender-backend/internal/domain/repository"
	"github.com/tenderhub/tender-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey    = "userID"
	ContextCompanyIDKey = "companyID"
)

// AuthMiddleware проверяет JWT access токен платформы и кладёт в контекст
// userID и companyID. Если токен не содержит клейм company_id, компания
// разрешается по владельцу через репозиторий.
func AuthMiddleware(tokens *service.TokenManager, companies repository.CompanyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, companyID, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		if companyID == uuid.Nil {
			company, err := companies.FindByOwner(c.Request.Context(), userID)
			if err != nil || company == nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "профиль компании не найден"})
				return
			}
			companyID = company.ID
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextCompanyIDKey, companyID)
		c.Next()
	}
}
