package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tenderhub/tender-backend/internal/http/middleware"
)

func getCompanyID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(middleware.ContextCompanyIDKey)
	if !exists {
		return uuid.Nil, errors.New("companyID не найден в контексте")
	}

	companyID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("некорректный формат companyID")
	}

	return companyID, nil
}

func parseVersionParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return 0, errors.New("некорректный номер версии")
	}
	return n, nil
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
