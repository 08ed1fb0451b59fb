package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/tealeg/xlsx"

	"jamsfrag_back_end/internal/blob"
	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/search"
	"jamsfrag_back_end/internal/store"
)

// Admin regroupe la console d'administration : CRUD produit, commandes,
// statistiques et export Excel. Toutes les routes passent par RequireAdmin.
type Admin struct {
	Products store.Products
	Orders   store.Orders
	Index    search.Index
	Blobs    blob.Storage
	Bus      realtime.Bus
}

func NewAdmin(products store.Products, orders store.Orders, index search.Index, blobs blob.Storage, bus realtime.Bus) *Admin {
	return &Admin{Products: products, Orders: orders, Index: index, Blobs: blobs, Bus: bus}
}

// ================== PRODUITS ==================

type productInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	Details     []string `json:"details"`
}

func (in *productInput) validate() string {
	if in.Name == "" {
		return "Le nom est obligatoire"
	}
	if in.Price <= 0 {
		return "Le prix doit être strictement positif"
	}
	if in.Discount < 0 || in.Discount > 100 {
		return "La remise doit être entre 0 et 100"
	}
	if !models.IsValidCategory(in.Category) {
		return "Catégorie inconnue"
	}
	return ""
}

// POST /api/admin/products
func (h *Admin) CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	now := time.Now().UTC()
	p := &models.Product{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		Details:     input.Details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Products.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Index.IndexProduct(c.Request.Context(), p)
	c.JSON(http.StatusCreated, p)
}

// PUT /api/admin/products/:id
func (h *Admin) UpdateProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	existing, err := h.Products.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Discount = input.Discount
	existing.ImageURL = input.ImageURL
	existing.Category = input.Category
	existing.Details = input.Details
	existing.UpdatedAt = time.Now().UTC()

	if err := h.Products.Update(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Index.IndexProduct(c.Request.Context(), existing)
	h.notifyProduct(c, id)
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/admin/products/:id
func (h *Admin) DeleteProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Index.RemoveProduct(c.Request.Context(), id.String())
	if err := h.Bus.Publish(c.Request.Context(), realtime.ProductChannel(id.String()), realtime.EventDeleted); err != nil {
		log.Printf("⚠️ Notification suppression produit %s non publiée: %v", id, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "✅ Produit supprimé"})
}

// POST /api/admin/products/:id/image — upload multipart de l'image produit.
func (h *Admin) UploadProductImage(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

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

	objectName, err := h.Blobs.Upload(c.Request.Context(), "products", fileHeader.Filename,
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

	p, err := h.Products.Get(c.Request.Context(), id)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now().UTC()
	if err := h.Products.Update(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.notifyProduct(c, id)
	c.JSON(http.StatusOK, gin.H{"message": "✅ Image uploadée", "image_url": url, "object": objectName})
}

// GET /api/admin/products/export — export Excel du catalogue.
func (h *Admin) ExportProductsXLSX(c *gin.Context) {
	products, err := h.Products.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement catalogue"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Produits")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création feuille Excel"})
		return
	}

	headers := []string{"ID", "Nom", "Catégorie", "Prix", "Remise %", "Prix effectif", "Likes", "Note", "Créé le"}
	headerRow := sheet.AddRow()
	for _, hd := range headers {
		headerRow.AddCell().SetValue(hd)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Discount)
		row.AddCell().SetValue(p.EffectivePrice())
		row.AddCell().SetValue(p.Likes)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=produits.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur écriture fichier Excel"})
		return
	}
}

// ================== COMMANDES ==================

// GET /api/admin/orders
func (h *Admin) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// PUT /api/admin/orders/:id/status
func (h *Admin) UpdateOrderStatus(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut manquant"})
		return
	}

	if err := h.Orders.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "✅ Statut mis à jour", "status": input.Status})
}

// GET /api/admin/stats — agrégats de la console : total des ventes, commandes
// en attente, nombre de commandes.
func (h *Admin) Stats(c *gin.Context) {
	orders, err := h.Orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur chargement commandes"})
		return
	}

	totalSales := 0.0
	pending := 0
	for _, o := range orders {
		totalSales += o.Total
		if o.Status == models.OrderStatusPending {
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalSales":    totalSales,
		"pendingOrders": pending,
		"totalOrders":   len(orders),
	})
}

func (h *Admin) notifyProduct(c *gin.Context, id gocql.UUID) {
	if err := h.Bus.Publish(c.Request.Context(), realtime.ProductChannel(id.String()), realtime.EventUpdated); err != nil {
		log.Printf("⚠️ Notification produit %s non publiée: %v", id, err)
	}
}
