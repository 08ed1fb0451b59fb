package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
	"jamsfrag_back_end/internal/utils"
)

// Orders sert l'historique d'un client et le suivi public par numéro TRK.
type Orders struct {
	Store       store.Orders
	FrontendURL string
}

func NewOrders(st store.Orders, frontendURL string) *Orders {
	return &Orders{Store: st, FrontendURL: frontendURL}
}

// GET /api/orders
func (h *Orders) Mine(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := h.Store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/track/:trackingId — suivi public, pas de session requise.
func (h *Orders) Track(c *gin.Context) {
	trackingID := c.Param("trackingId")

	order, err := h.Store.GetByTracking(c.Request.Context(), trackingID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Numéro de suivi inconnu"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trackingId": order.TrackingID,
		"status":     order.Status,
		"items":      order.Items,
		"total":      order.Total,
		"createdAt":  order.CreatedAt,
	})
}

// GET /api/orders/track/:trackingId/qr — PNG encodant l'URL de suivi.
func (h *Orders) TrackQR(c *gin.Context) {
	trackingID := c.Param("trackingId")

	if _, err := h.Store.GetByTracking(c.Request.Context(), trackingID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Numéro de suivi inconnu"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	png, err := utils.TrackingQRCode(fmt.Sprintf("%s/order-status/%s", h.FrontendURL, trackingID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
