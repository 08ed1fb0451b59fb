package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/store"
)

// Comments : commentaires d'une fiche produit, réponses embarquées.
type Comments struct {
	Store store.Comments
	Users store.Users
	Bus   realtime.Bus
}

func NewComments(st store.Comments, users store.Users, bus realtime.Bus) *Comments {
	return &Comments{Store: st, Users: users, Bus: bus}
}

// GET /api/products/:id/comments
func (h *Comments) List(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	comments, err := h.Store.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement commentaires"})
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// POST /api/products/:id/comments
func (h *Comments) Add(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le commentaire est vide"})
		return
	}

	userID := c.GetString("user_id")
	userName := ""
	if user, err := h.Users.Get(c.Request.Context(), userID); err == nil {
		userName = user.Name
	}

	comment := &models.Comment{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.Add(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notify(c, productID)
	c.JSON(http.StatusCreated, comment)
}

// POST /api/products/:id/comments/:commentId/replies
// Les réponses sont anonymes et embarquées : pas d'identité, pas d'édition.
func (h *Comments) Reply(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}
	commentID, err := gocql.ParseUUID(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commentaire invalide"})
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La réponse est vide"})
		return
	}

	reply := models.Reply{Text: strings.TrimSpace(input.Text), CreatedAt: time.Now().UTC()}
	if err := h.Store.AddReply(c.Request.Context(), productID, commentID, reply); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commentaire introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notify(c, productID)
	c.JSON(http.StatusCreated, reply)
}

func (h *Comments) notify(c *gin.Context, productID gocql.UUID) {
	if err := h.Bus.Publish(c.Request.Context(), realtime.ProductChannel(productID.String()), realtime.EventUpdated); err != nil {
		log.Printf("⚠️ Notification produit %s non publiée: %v", productID, err)
	}
}
