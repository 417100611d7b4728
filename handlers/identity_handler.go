package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IdentityHandler struct{}

func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// Create mints a fresh anonymous id for clients that cannot generate
// one locally. The id is not authenticated; it is only as stable as the
// client's own storage.
func (h *IdentityHandler) Create(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"anonymous_id": uuid.NewString()})
}
