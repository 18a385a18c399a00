package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/topprix/listing-service/internal/export"
)

// ExportListings streams the resolved page as an XLSX workbook
// GET /internal/listings/:collection/export?page=&limit=&active=&categoryId=&q=&storeId=&ownerId=
func (h *Handler) ExportListings(c *gin.Context) {
	env, ok := h.resolve(c)
	if !ok {
		return
	}
	page := h.classifyPage(env)

	rows := make([]export.Row, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, export.Row{
			ID:            item.ID,
			Title:         item.Title,
			StoreID:       item.StoreID,
			CategoryID:    item.CategoryID,
			StartDate:     item.StartDate,
			EndDate:       item.EndDate,
			Status:        item.Status,
			DaysRemaining: item.DaysRemaining,
		})
	}

	collection := c.Param("collection")
	workbook, err := export.Workbook(collection, rows)
	if err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("Export build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("%s-page-%d.xlsx", collection, page.CurrentPage)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error().Err(err).Msg("Export write failed")
	}
}
