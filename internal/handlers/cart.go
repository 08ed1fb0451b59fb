package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"

	"jamsfrag_back_end/internal/cart"
	"jamsfrag_back_end/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// Cart expose les mutations du panier et le flux WebSocket de synchronisation.
// Toutes les routes exigent une session : un anonyme reçoit 401 et le front
// redirige vers le login sans rien écrire.
type Cart struct {
	Service *cart.Service
}

func NewCart(svc *cart.Service) *Cart {
	return &Cart{Service: svc}
}

// GET /api/cart
func (h *Cart) Get(c *gin.Context) {
	userID := c.GetString("user_id")

	snap, err := h.Service.Snapshot(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement panier"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// POST /api/cart/add
func (h *Cart) Add(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	productID, err := gocql.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	item, err := h.Service.Add(c.Request.Context(), userID, productID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /api/cart/:itemId/increase
func (h *Cart) Increase(c *gin.Context) {
	h.adjust(c, +1)
}

// POST /api/cart/:itemId/decrease
// La quantité plancher est 1 : en dessous, no-op. Retirer la ligne passe
// par DELETE /api/cart/:itemId.
func (h *Cart) Decrease(c *gin.Context) {
	h.adjust(c, -1)
}

func (h *Cart) adjust(c *gin.Context, delta int) {
	userID := c.GetString("user_id")
	itemID, err := gocql.ParseUUID(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var qty int
	if delta > 0 {
		qty, err = h.Service.Increase(c.Request.Context(), userID, itemID)
	} else {
		qty, err = h.Service.Decrease(c.Request.Context(), userID, itemID)
	}
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quantity": qty})
}

// PUT /api/cart/:itemId
func (h *Cart) SetQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	itemID, err := gocql.ParseUUID(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La quantité minimale est 1"})
		return
	}

	if err := h.Service.SetQuantity(c.Request.Context(), userID, itemID, input.Quantity); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quantity": input.Quantity})
}

// DELETE /api/cart/:itemId
func (h *Cart) Remove(c *gin.Context) {
	userID := c.GetString("user_id")
	itemID, err := gocql.ParseUUID(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	if err := h.Service.Remove(c.Request.Context(), userID, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article retiré"})
}

// GET /api/cart/ws — synchronisation temps réel du panier.
// Le miroir est fermé quand le socket se ferme : l'abonnement Redis ne
// survit jamais à la vue.
func (h *Cart) WebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	mirror, err := h.Service.OpenMirror(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur ouverture miroir panier %s: %v", userID, err)
		conn.WriteJSON(gin.H{"type": "error", "message": "Synchronisation indisponible"})
		return
	}
	defer mirror.Close()

	conn.WriteJSON(gin.H{"type": "connected", "message": "Synchronisation panier activée"})
	conn.WriteJSON(gin.H{"type": "cart_updated", "cart": mirror.Current()})

	// Pompe de lecture : détecte la fermeture côté client
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-mirror.Updates():
			if !ok {
				return
			}
			if err := conn.WriteJSON(gin.H{"type": "cart_updated", "cart": snap}); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-closed:
			return
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
