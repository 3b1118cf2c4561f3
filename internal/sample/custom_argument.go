package sample

import "github.com/gin-gonic/gin"

// CustomArgument is resolved from the request's query string rather than
// read by handlers directly.
type CustomArgument struct {
	Content string `form:"content" json:"content" binding:"required"`
}

// BindCustomArgument resolves a CustomArgument for the request. Validation
// failures are returned as validator.ValidationErrors.
func BindCustomArgument(c *gin.Context) (CustomArgument, error) {
	var arg CustomArgument
	if err := c.ShouldBindQuery(&arg); err != nil {
		return CustomArgument{}, err
	}
	return arg, nil
}
