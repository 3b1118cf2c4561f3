package sample

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Err     error       `json:"-"`
	Code    int         `json:"-"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e ErrorResponse) Error() string {
	return e.Message
}

func (e ErrorResponse) Unwrap() error {
	return e.Err
}

func (e *ErrorResponse) Parse(validationErrors validator.ValidationErrors) {
	e.Code = http.StatusBadRequest
	e.Message = "validation error"
	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = fe.Tag()
	}
	e.Data = fields
}

func NewErrInternalServer(err error) ErrorResponse {
	return ErrorResponse{
		Err:     err,
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	}
}

func NewErrNotFound(path string) ErrorResponse {
	return ErrorResponse{
		Code:    http.StatusNotFound,
		Message: "not found",
		Data:    map[string]string{"path": path},
	}
}

func NewErrNotAcceptable(accept string) ErrorResponse {
	return ErrorResponse{
		Code:    http.StatusNotAcceptable,
		Message: "not acceptable",
		Data:    map[string]string{"accept": accept},
	}
}

func ErrorHandlerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil || c.Writer.Written() {
			return
		}

		var errorResponse ErrorResponse
		if errors.As(err.Err, &errorResponse) {
			if errorResponse.Code > 499 {
				logger.Error("internal server error", zap.Error(errorResponse.Err))
			}
			handleErrorResponse(c, errorResponse)
			return
		}

		var validationErrors validator.ValidationErrors
		if errors.As(err.Err, &validationErrors) {
			errorResponse := ErrorResponse{}
			errorResponse.Parse(validationErrors)
			handleErrorResponse(c, errorResponse)
			return
		}

		logger.Error("internal server error", zap.Error(err.Err))
		handleErrorResponse(c, NewErrInternalServer(err.Err))
	}
}

func handleErrorResponse(c *gin.Context, response ErrorResponse) {
	c.JSON(response.Code, response)
}
