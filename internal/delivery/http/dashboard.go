package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

//go:embed templates
var templatesFS embed.FS

var dashboardTemplate = template.Must(
	template.ParseFS(templatesFS, "templates/dashboard.html.tpl"),
)

// priceRow is a display-ready history row; prices are pre-formatted so the
// template never sees a nil pointer.
type priceRow struct {
	Date         string
	Product      string
	Price        string
	Availability string
	URL          string
}

type trendGroup struct {
	Product string
	URL     string
	Rows    []priceRow
}

type dashboardContext struct {
	Title         string
	AlertsEnabled bool
	Products      []domain.TrackedProduct
	Latest        []priceRow
	Trends        []trendGroup
	GeneratedAt   string
}

// Dashboard renders the HTML dashboard: latest prices, per-product trends
// and the tracked-product list.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.tracking.List(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load tracked products")
		return
	}
	alertsEnabled, err := h.tracking.AlertsEnabled(ctx)
	if err != nil {
		alertsEnabled = true
	}
	latest, err := h.dashboard.Latest(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load latest prices")
		return
	}
	history, err := h.dashboard.History(ctx, usecase.HistoryFilter{})
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load price history")
		return
	}

	data := dashboardContext{
		Title:         "Multi-Site Price Tracker",
		AlertsEnabled: alertsEnabled,
		Products:      products,
		Latest:        toRows(latest),
		Trends:        groupTrends(history),
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05"),
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

func toRow(rec domain.PriceRecord) priceRow {
	return priceRow{
		Date:         rec.Date.Format("2006-01-02"),
		Product:      rec.ProductName,
		Price:        formatPrice(rec.Price),
		Availability: rec.Availability,
		URL:          rec.URL,
	}
}

func toRows(records []domain.PriceRecord) []priceRow {
	rows := make([]priceRow, len(records))
	for i, rec := range records {
		rows[i] = toRow(rec)
	}
	return rows
}

// groupTrends splits the joined history into one series per product,
// preserving first-seen order.
func groupTrends(records []domain.PriceRecord) []trendGroup {
	index := make(map[string]int)
	var groups []trendGroup
	for _, rec := range records {
		i, ok := index[rec.URL]
		if !ok {
			i = len(groups)
			index[rec.URL] = i
			groups = append(groups, trendGroup{Product: rec.ProductName, URL: rec.URL})
		}
		groups[i].Product = rec.ProductName
		groups[i].Rows = append(groups[i].Rows, toRow(rec))
	}
	return groups
}

func formatPrice(p *float64) string {
	if p == nil {
		return domain.PriceNA
	}
	return fmt.Sprintf("$%.2f", *p)
}
