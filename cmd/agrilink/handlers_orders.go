package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/agrilink/internal/httpx"
	"github.com/MikeMC777/agrilink/internal/order"
	"github.com/MikeMC777/agrilink/internal/token"
)

const maxMatrixSize = 32

type matrixResponse struct {
	Payload string  `json:"payload"`
	Size    int     `json:"size"`
	Rows    [][]int `json:"rows"`
}

// createOrderHandler stores a pre-order and assigns its token.
//
// @Summary      Create a pre-order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      order.CreateOrderRequest  true  "Order"
// @Success      201    {object}  order.Order
// @Failure      400    {object}  httpx.HTTPError
// @Failure      500    {object}  httpx.HTTPError
// @Router       /orders [post]
func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "body", err.Error())
			return
		}
		o, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary      Get an order by token
// @Tags         orders
// @Produce      json
// @Param        token  path      string  true  "Order token"
// @Success      200    {object}  order.Order
// @Failure      404    {object}  httpx.HTTPError
// @Router       /orders/{token} [get]
func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), c.Param("token"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func parseSize(c *gin.Context) (int, bool) {
	raw := c.Query("size")
	if raw == "" {
		return token.DefaultSize, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxMatrixSize {
		httpx.BadRequest(c, "size", "must be an integer between 1 and "+strconv.Itoa(maxMatrixSize))
		return 0, false
	}
	return n, true
}

// orderMatrixHandler returns the scan-code bits for a stored order's token.
//
// @Summary      Scan-code matrix for an order token
// @Tags         orders
// @Produce      json
// @Param        token  path      string   true   "Order token"
// @Param        size   query     integer  false  "Side length, 1 to 32"  default(5)
// @Success      200    {object}  matrixResponse
// @Failure      400    {object}  httpx.HTTPError
// @Failure      404    {object}  httpx.HTTPError
// @Router       /orders/{token}/matrix [get]
func orderMatrixHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, ok := parseSize(c)
		if !ok {
			return
		}
		o, err := svc.Get(c.Request.Context(), c.Param("token"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		m := token.NewMatrix(o.Token, size)
		c.JSON(http.StatusOK, matrixResponse{Payload: o.Token, Size: m.Size(), Rows: m.Rows()})
	}
}
