package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	tracking  *usecase.TrackingService
	dashboard *usecase.DashboardService
}

// NewHandler creates a new HTTP handler
func NewHandler(tracking *usecase.TrackingService, dashboard *usecase.DashboardService) *Handler {
	return &Handler{tracking: tracking, dashboard: dashboard}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns all tracked products
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.tracking.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []domain.TrackedProduct{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type addProductRequest struct {
	URL    string `json:"url" binding:"required"`
	Source string `json:"source"`
}

// AddProduct registers a new product URL for tracking
func (h *Handler) AddProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	id, err := h.tracking.Add(c.Request.Context(), req.URL, req.Source)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedSite):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateURL):
		c.JSON(http.StatusConflict, gin.H{"error": "url is already tracked"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// DeleteProduct removes a tracked product and its price history
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	err = h.tracking.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// GetAlerts returns the global email-alert toggle
func (h *Handler) GetAlerts(c *gin.Context) {
	enabled, err := h.tracking.AlertsEnabled(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read alert settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

type setAlertsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetAlerts updates the global email-alert toggle
func (h *Handler) SetAlerts(c *gin.Context) {
	var req setAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}
	if err := h.tracking.SetAlerts(c.Request.Context(), *req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// GetPrices returns the joined price history, optionally filtered by product
// name and date range
func (h *Handler) GetPrices(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.dashboard.History(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load price history"})
		return
	}
	if records == nil {
		records = []domain.PriceRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"prices": records})
}

// GetLatestPrices returns the most recent observation per product
func (h *Handler) GetLatestPrices(c *gin.Context) {
	records, err := h.dashboard.Latest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load latest prices"})
		return
	}
	if records == nil {
		records = []domain.PriceRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"prices": records})
}

// ExportPrices streams the filtered price history as a CSV download
func (h *Handler) ExportPrices(c *gin.Context) {
	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.dashboard.History(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load price history"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="price_data.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := h.dashboard.WriteCSV(c.Writer, records); err != nil {
		// Headers are already written; nothing more we can do.
		_ = c.Error(err)
	}
}

// historyFilterFromQuery parses ?product=...&product=...&from=...&to=...
func historyFilterFromQuery(c *gin.Context) (usecase.HistoryFilter, error) {
	filter := usecase.HistoryFilter{Products: c.QueryArray("product")}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		filter.To = t
	}
	return filter, nil
}
