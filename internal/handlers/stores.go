package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerStoresResponse represents the resolved store set of an owner
type OwnerStoresResponse struct {
	OwnerID  string   `json:"ownerId"`
	StoreIDs []string `json:"storeIds"`
}

// OwnerStores returns the store ids owned by a retailer
// GET /internal/stores/:ownerId
func (h *Handler) OwnerStores(c *gin.Context) {
	ownerID := c.Param("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	ids, err := h.dir.StoresForOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error().Err(err).Str("owner_id", ownerID).Msg("Store resolution failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "failed to resolve owner stores",
			"retryable": true,
		})
		return
	}

	c.JSON(http.StatusOK, OwnerStoresResponse{OwnerID: ownerID, StoreIDs: ids})
}
