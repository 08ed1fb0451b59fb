package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/search"
	"jamsfrag_back_end/internal/store"
)

// Products sert le catalogue public : listing, filtre par catégorie, fiche
// produit, recherche, likes et notes.
type Products struct {
	Store    store.Products
	Comments store.Comments
	Index    search.Index
	Bus      realtime.Bus
}

func NewProducts(st store.Products, comments store.Comments, index search.Index, bus realtime.Bus) *Products {
	return &Products{Store: st, Comments: comments, Index: index, Bus: bus}
}

// GET /api/products
func (h *Products) List(c *gin.Context) {
	products, err := h.Store.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur listing produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement catalogue"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/category/:category
func (h *Products) ByCategory(c *gin.Context) {
	category := c.Param("category")
	if !models.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie inconnue"})
		return
	}

	products, err := h.Store.GetByCategory(c.Request.Context(), category)
	if err != nil {
		log.Printf("❌ Erreur listing catégorie %s: %v", category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement catalogue"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/:id
func (h *Products) Get(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := h.Store.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	comments, err := h.Comments.ListByProduct(c.Request.Context(), id)
	if err != nil {
		// La fiche reste servable sans les commentaires
		log.Printf("⚠️ Erreur chargement commentaires produit %s: %v", id, err)
		comments = []models.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"product":        p,
		"effectivePrice": p.EffectivePrice(),
		"comments":       comments,
	})
}

// GET /api/products/search?q=...
func (h *Products) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' manquant"})
		return
	}

	results, err := h.Index.Search(c.Request.Context(), query)
	if err != nil {
		log.Printf("❌ Erreur recherche %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// POST /api/products/:id/like
func (h *Products) Like(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	if err := h.Store.Like(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyProduct(c, id)
	c.JSON(http.StatusOK, gin.H{"message": "❤️ Like enregistré"})
}

// POST /api/products/:id/rate
func (h *Products) Rate(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être entre 1 et 5"})
		return
	}

	userID := c.GetString("user_id")
	if err := h.Store.Rate(c.Request.Context(), id, userID, input.Rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyProduct(c, id)
	c.JSON(http.StatusOK, gin.H{"message": "Note enregistrée"})
}

func (h *Products) notifyProduct(c *gin.Context, id gocql.UUID) {
	if err := h.Bus.Publish(c.Request.Context(), realtime.ProductChannel(id.String()), realtime.EventUpdated); err != nil {
		log.Printf("⚠️ Notification produit %s non publiée: %v", id, err)
	}
}
