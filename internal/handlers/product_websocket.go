package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/store"
)

// GET /api/products/:id/ws — fiche produit vivante : likes, notes et
// commentaires poussés sans rechargement. Route publique.
// À chaque notification on relit l'état complet ; l'abonnement est résilié
// quand le socket se ferme.
func (h *Products) WebSocket(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	sub, err := h.Bus.Subscribe(c.Request.Context(), realtime.ProductChannel(id.String()))
	if err != nil {
		log.Printf("❌ Erreur abonnement produit %s: %v", id, err)
		conn.WriteJSON(gin.H{"type": "error", "message": "Synchronisation indisponible"})
		return
	}
	defer sub.Close()

	if payload, ok := h.productPayload(c, id); ok {
		conn.WriteJSON(payload)
	}

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
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if event == realtime.EventDeleted {
				conn.WriteJSON(gin.H{"type": "product_deleted"})
				return
			}
			payload, ok := h.productPayload(c, id)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(payload); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-closed:
			return
		case <-time.After(30 * time.Second):
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Products) productPayload(c *gin.Context, id gocql.UUID) (gin.H, bool) {
	p, err := h.Store.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ Erreur relecture produit %s: %v", id, err)
		return nil, false
	}

	comments, err := h.Comments.ListByProduct(c.Request.Context(), id)
	if err != nil {
		comments = []models.Comment{}
	}

	return gin.H{
		"type":           "product_updated",
		"product":        p,
		"effectivePrice": p.EffectivePrice(),
		"comments":       comments,
	}, true
}
