package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/agrilink/internal/httpx"
	"github.com/MikeMC777/agrilink/internal/metrics"
)

func parseLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > metrics.MaxWindow {
		httpx.BadRequest(c, "limit", "must be an integer between 1 and "+strconv.Itoa(metrics.MaxWindow))
		return 0, false
	}
	return n, true
}

// parseSeries reads ?series=a,b. A missing selector returns nil (all series).
func parseSeries(c *gin.Context) []string {
	raw, ok := c.GetQuery("series")
	if !ok {
		return nil
	}
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// @Summary      Latest metric samples, oldest first
// @Tags         metrics
// @Produce      json
// @Param        limit  query     integer  false  "Window, 1 to 52"
// @Success      200    {array}   metrics.Sample
// @Failure      400    {object}  httpx.HTTPError
// @Router       /metrics [get]
func listMetricsHandler(repo metrics.Repository, window int) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := parseLimit(c, window)
		if !ok {
			return
		}
		samples, err := repo.Recent(c.Request.Context(), n)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, samples)
	}
}

type appendMetricRequest struct {
	Period string             `json:"period" example:"W5"`
	Series map[string]float64 `json:"series"`
}

// @Summary      Append a metric sample
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        sample  body      appendMetricRequest  true  "Sample"
// @Success      201     {object}  metrics.Sample
// @Failure      400     {object}  httpx.HTTPError
// @Router       /metrics [post]
func appendMetricHandler(repo metrics.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req appendMetricRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "body", err.Error())
			return
		}
		req.Period = strings.TrimSpace(req.Period)
		if req.Period == "" {
			httpx.BadRequest(c, "period", "is required")
			return
		}
		if req.Series == nil {
			req.Series = map[string]float64{}
		}
		s := &metrics.Sample{Period: req.Period, Series: req.Series}
		if err := repo.Append(c.Request.Context(), s); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

// @Summary      Dashboard totals and contribution share
// @Tags         metrics
// @Produce      json
// @Param        limit   query     integer  false  "Window, 1 to 52"
// @Param        series  query     string   false  "Comma-separated series names"
// @Success      200     {object}  metrics.Summary
// @Failure      400     {object}  httpx.HTTPError
// @Router       /metrics/summary [get]
func summaryHandler(repo metrics.Repository, share metrics.ShareConfig, window int) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := parseLimit(c, window)
		if !ok {
			return
		}
		samples, err := repo.Recent(c.Request.Context(), n)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics.Summarize(samples, parseSeries(c), share))
	}
}
