package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jamsfrag_back_end/internal/checkout"
	"jamsfrag_back_end/internal/models"
)

// Checkout pilote la machine à états du passage en caisse, une étape HTTP
// par transition.
type Checkout struct {
	Service *checkout.Service
}

func NewCheckout(svc *checkout.Service) *Checkout {
	return &Checkout{Service: svc}
}

// POST /api/checkout/begin
func (h *Checkout) Begin(c *gin.Context) {
	userID := c.GetString("user_id")

	m, err := h.Service.Begin(c.Request.Context(), userID)
	if errors.Is(err, checkout.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le panier est vide"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": m.State})
}

// GET /api/checkout
func (h *Checkout) Current(c *gin.Context) {
	userID := c.GetString("user_id")

	m, err := h.Service.Load(c.Request.Context(), userID)
	if errors.Is(err, checkout.ErrNoSession) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun checkout en cours"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/checkout/shipping
func (h *Checkout) Shipping(c *gin.Context) {
	userID := c.GetString("user_id")

	var info models.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	m, fieldErrs, err := h.Service.SubmitShipping(c.Request.Context(), userID, info)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !fieldErrs.OK() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs, "state": m.State})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": m.State})
}

// POST /api/checkout/payment
func (h *Checkout) Payment(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Method string                `json:"method"`
		Card   *models.CardDetails   `json:"card,omitempty"`
		Wallet *models.WalletDetails `json:"wallet,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	m, fieldErrs, err := h.Service.ChoosePayment(c.Request.Context(), userID, input.Method, input.Card, input.Wallet)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !fieldErrs.OK() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs, "state": m.State})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": m.State, "method": m.Method})
}

// POST /api/checkout/submit
func (h *Checkout) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	order, err := h.Service.Submit(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "✅ Commande enregistrée",
		"orderId":    order.ID.String(),
		"trackingId": order.TrackingID,
		"status":     order.Status,
		"total":      order.Total,
	})
}

func (h *Checkout) fail(c *gin.Context, err error) {
	var inv *checkout.ErrInvalidTransition
	switch {
	case errors.Is(err, checkout.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun checkout en cours"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le panier est vide"})
	case errors.As(err, &inv):
		c.JSON(http.StatusConflict, gin.H{"error": inv.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
