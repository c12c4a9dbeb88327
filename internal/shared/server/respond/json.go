package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ItemsResponse wraps list payloads so fields can be added beside the items later.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// JSON writes payload with status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload with 200.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Items writes a 200 list response. A nil slice is sent as [].
func Items[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	OK(c, ItemsResponse[T]{Items: items})
}
