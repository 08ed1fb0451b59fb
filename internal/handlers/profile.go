package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jamsfrag_back_end/internal/blob"
	"jamsfrag_back_end/internal/identity"
	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
)

// Profile gère le document profil de l'utilisateur connecté. Le document est
// créé paresseusement : avant la première écriture, le profil se résume aux
// claims du jeton.
type Profile struct {
	Identity *identity.Service
	Users    store.Users
	Blobs    blob.Storage
}

func NewProfile(id *identity.Service, users store.Users, blobs blob.Storage) *Profile {
	return &Profile{Identity: id, Users: users, Blobs: blobs}
}

// GET /api/profile
func (h *Profile) Get(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.Users.Get(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		// Pas encore de document : profil minimal depuis le jeton
		c.JSON(http.StatusOK, models.User{
			ID:    userID,
			Email: c.GetString("email"),
			Role:  c.GetString("role"),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/profile
func (h *Profile) Update(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name           string `json:"name"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, err := h.Identity.UpdateProfile(c.Request.Context(), userID, input.Name, input.ProfilePicture)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/profile/picture — upload multipart de la photo de profil.
func (h *Profile) UploadPicture(c *gin.Context) {
	userID := c.GetString("user_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier illisible"})
		return
	}
	defer file.Close()

	objectName, err := h.Blobs.Upload(c.Request.Context(), "profiles", fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	url, err := h.Blobs.PresignedURL(c.Request.Context(), objectName, 7*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL"})
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	name := ""
	if err == nil {
		name = user.Name
	}
	if err := h.Users.UpdateProfile(c.Request.Context(), userID, name, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "✅ Photo de profil mise à jour",
		"profilePicture": url,
		"object":         objectName,
	})
}

// PUT /api/profile/password
func (h *Profile) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	err := h.Identity.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe actuel incorrect"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "✅ Mot de passe modifié"})
}
