package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/agrilink/internal/cart"
	"github.com/MikeMC777/agrilink/internal/order"
	"github.com/MikeMC777/agrilink/internal/product"
)

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error   string             `json:"error"`
	Details []order.FieldError `json:"details,omitempty"`
}

// Fail writes err with the status its type maps to.
func Fail(c *gin.Context, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, HTTPError{Error: "validation failed", Details: verr.Fields})
	case errors.Is(err, order.ErrNotFound), errors.Is(err, product.ErrNotFound):
		c.JSON(http.StatusNotFound, HTTPError{Error: err.Error()})
	case errors.Is(err, cart.ErrConflict):
		c.JSON(http.StatusConflict, HTTPError{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, HTTPError{Error: "internal error"})
	}
}

// BadRequest reports a single-field problem, such as an undecodable body.
func BadRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, HTTPError{
		Error:   "validation failed",
		Details: []order.FieldError{{Field: field, Message: msg}},
	})
}
