package handlers

import (
	"fmt"
	"net/http"

	"biolink/internal/services"
	"biolink/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// pageParams reads limit and offset from the query string. Range checks are
// left to the services.
func pageParams(c *gin.Context, defLimit int) (limit, offset int, err error) {
	limit, err = utils.ParseIntOr(c.Query("limit"), defLimit)
	if err != nil {
		return 0, 0, services.NewError(services.ErrValidation, "limit must be an integer")
	}
	offset, err = utils.ParseIntOr(c.Query("offset"), 0)
	if err != nil {
		return 0, 0, services.NewError(services.ErrValidation, "offset must be an integer")
	}
	return limit, offset, nil
}

// bindJSON decodes the request body into obj, recording a validation error
// on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(services.NewError(services.ErrValidation, fmt.Sprintf("invalid request body: %v", err)))
		return false
	}
	return true
}

func ok(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, obj)
}
