package main

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/agrilink/internal/cart"
	"github.com/MikeMC777/agrilink/internal/httpx"
	"github.com/MikeMC777/agrilink/internal/order"
	"github.com/MikeMC777/agrilink/internal/product"
	"github.com/MikeMC777/agrilink/internal/token"
)

const maxSessionLen = 128

type cartResponse struct {
	cart.View
	PreviewMatrix [][]int `json:"previewMatrix,omitempty"`
}

func renderCart(c *gin.Context, status int, ct cart.Cart) {
	v := ct.View()
	resp := cartResponse{View: v}
	if v.PreviewToken != "" {
		resp.PreviewMatrix = token.NewMatrix(v.PreviewToken, token.DefaultSize).Rows()
	}
	c.JSON(status, resp)
}

func session(c *gin.Context) (string, bool) {
	s := c.Param("session")
	if s == "" || len(s) > maxSessionLen {
		httpx.BadRequest(c, "session", "must be 1 to 128 characters")
		return "", false
	}
	return s, true
}

// bindOptional decodes a JSON body when present; an empty body is fine.
func bindOptional(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		httpx.BadRequest(c, "body", err.Error())
		return false
	}
	return true
}

// @Summary      Get the session cart
// @Tags         cart
// @Produce      json
// @Param        session  path      string  true  "Session ID"
// @Success      200      {object}  cartResponse
// @Failure      400      {object}  httpx.HTTPError
// @Router       /cart/{session} [get]
func getCartHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		ct, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		renderCart(c, http.StatusOK, ct)
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" example:"v1"`
	Qty       *int   `json:"qty" example:"1"`
}

// addCartItemHandler snapshots the catalog entry into a cart line.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        session  path      string          true  "Session ID"
// @Param        item     body      addItemRequest  true  "Item"
// @Success      200      {object}  cartResponse
// @Failure      400      {object}  httpx.HTTPError
// @Failure      404      {object}  httpx.HTTPError
// @Failure      409      {object}  httpx.HTTPError
// @Router       /cart/{session}/items [post]
func addCartItemHandler(store cart.Store, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "body", err.Error())
			return
		}
		if req.ProductID == "" {
			httpx.BadRequest(c, "productId", "is required")
			return
		}
		qty := 1
		if req.Qty != nil {
			qty = *req.Qty
		}
		if qty < 1 {
			httpx.BadRequest(c, "qty", "must be a positive integer")
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		line := cart.Line{ProductID: p.ID, Name: p.Name, Unit: p.Unit, Price: p.Price, Qty: qty}
		ct, err := store.Update(c.Request.Context(), sid, func(ct cart.Cart) cart.Cart { return ct.Add(line) })
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		renderCart(c, http.StatusOK, ct)
	}
}

type updateItemRequest struct {
	Qty   *int `json:"qty" example:"3"`
	Delta *int `json:"delta" example:"-1"`
}

// @Summary      Set or step a line quantity
// @Description  Send exactly one of qty or delta. The quantity never drops below 1.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        session    path      string             true  "Session ID"
// @Param        productId  path      string             true  "Product ID"
// @Param        change     body      updateItemRequest  true  "Quantity change"
// @Success      200        {object}  cartResponse
// @Failure      400        {object}  httpx.HTTPError
// @Failure      409        {object}  httpx.HTTPError
// @Router       /cart/{session}/items/{productId} [patch]
func updateCartItemHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "body", err.Error())
			return
		}
		if (req.Qty == nil) == (req.Delta == nil) {
			httpx.BadRequest(c, "body", "exactly one of qty or delta is required")
			return
		}
		id := c.Param("productId")
		ct, err := store.Update(c.Request.Context(), sid, func(ct cart.Cart) cart.Cart {
			if req.Qty != nil {
				return ct.SetQuantity(id, *req.Qty)
			}
			return ct.AdjustQuantity(id, *req.Delta)
		})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		renderCart(c, http.StatusOK, ct)
	}
}

// @Summary      Remove a line from the cart
// @Tags         cart
// @Produce      json
// @Param        session    path      string  true  "Session ID"
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  cartResponse
// @Failure      409        {object}  httpx.HTTPError
// @Router       /cart/{session}/items/{productId} [delete]
func removeCartItemHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		id := c.Param("productId")
		ct, err := store.Update(c.Request.Context(), sid, func(ct cart.Cart) cart.Cart { return ct.Remove(id) })
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		renderCart(c, http.StatusOK, ct)
	}
}

// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Param        session  path      string  true  "Session ID"
// @Success      200      {object}  cartResponse
// @Router       /cart/{session} [delete]
func clearCartHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		if err := store.Clear(c.Request.Context(), sid); err != nil {
			httpx.Fail(c, err)
			return
		}
		renderCart(c, http.StatusOK, cart.Cart{})
	}
}

type checkoutRequest struct {
	PickupPoint *string `json:"pickupPoint" example:"LINE point A"`
}

// checkoutHandler claims the session cart in one store update, so a second
// submit sees an empty cart, and turns the claimed lines into an order. When
// the order cannot be stored the claimed lines are merged back into whatever
// the session holds by then.
//
// @Summary      Check the cart out as an order
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        session  path      string           true   "Session ID"
// @Param        pickup   body      checkoutRequest  false  "Pickup point"
// @Success      201      {object}  order.Order
// @Failure      400      {object}  httpx.HTTPError
// @Failure      500      {object}  httpx.HTTPError
// @Router       /cart/{session}/checkout [post]
func checkoutHandler(store cart.Store, svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := session(c)
		if !ok {
			return
		}
		var req checkoutRequest
		if !bindOptional(c, &req) {
			return
		}
		ctx := c.Request.Context()

		var claimed cart.Cart
		if _, err := store.Update(ctx, sid, func(ct cart.Cart) cart.Cart {
			claimed = ct
			return cart.Cart{}
		}); err != nil {
			httpx.Fail(c, err)
			return
		}

		oreq := order.CreateOrderRequest{PickupPoint: req.PickupPoint}
		for _, l := range claimed.Lines {
			oreq.Items = append(oreq.Items, order.NewItem(l.ProductID, l.Qty, l.Price))
		}
		var o *order.Order
		err := order.Validate(oreq)
		if err == nil {
			o, err = svc.Create(ctx, oreq)
		}
		if err != nil {
			if !claimed.Empty() {
				restoreCart(context.WithoutCancel(ctx), store, sid, claimed)
			}
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func restoreCart(ctx context.Context, store cart.Store, sid string, claimed cart.Cart) {
	_, err := store.Update(ctx, sid, func(ct cart.Cart) cart.Cart {
		out := claimed
		for _, l := range ct.Lines {
			out = out.Add(l)
		}
		return out
	})
	if err != nil {
		log.WithError(err).WithField("session", sid).Warn("cart not restored after failed checkout")
	}
}
