package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
)

// Contact enregistre les messages du formulaire de contact.
type Contact struct {
	Store store.Contacts
}

func NewContact(st store.Contacts) *Contact {
	return &Contact{Store: st}
}

// POST /api/contact
func (h *Contact) Submit(c *gin.Context) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom et message obligatoires"})
		return
	}

	msg := &models.ContactMessage{
		ID:        gocql.TimeUUID(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.Add(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "✅ Message envoyé"})
}
