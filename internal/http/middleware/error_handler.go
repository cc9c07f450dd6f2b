package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tenderhub/tender-backend/internal/logger"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: логирует и отдаёт
// клиенту код и сообщение из таксономии apperror. Внутренние ошибки
// маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  string(appErr.Code),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "внутренняя ошибка сервера",
			"code":  string(apperror.ErrCodeInternal),
		})
	}
}
