package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/agrilink/internal/httpx"
	"github.com/MikeMC777/agrilink/internal/product"
)

// @Summary      List products ordered by name
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Category filter"  Enums(vegetables, eggs, mushrooms, chicken, fish)
// @Success      200       {object}  product.ListResponse
// @Failure      400       {object}  httpx.HTTPError
// @Router       /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := product.Category(strings.TrimSpace(c.Query("category")))
		if cat != "" && !cat.Valid() {
			httpx.BadRequest(c, "category", "unknown category "+string(cat))
			return
		}
		items, err := repo.List(c.Request.Context(), product.Query{Category: cat})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{Category: cat, Items: items})
	}
}

// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  product.Product
// @Failure      404  {object}  httpx.HTTPError
// @Router       /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
