// Package routes câble les handlers sur le routeur Gin.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jamsfrag_back_end/internal/handlers"
	"jamsfrag_back_end/internal/middleware"
)

// Deps : tout ce que le routeur consomme, injecté depuis main.
type Deps struct {
	JWTSecret   string
	FrontendURL string

	Auth     *handlers.Auth
	Products *handlers.Products
	Cart     *handlers.Cart
	Checkout *handlers.Checkout
	Orders   *handlers.Orders
	Profile  *handlers.Profile
	Admin    *handlers.Admin
	Comments *handlers.Comments
	Contact  *handlers.Contact
	Limiter  *middleware.Limiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(d.Limiter.APIRateLimit())

	api := r.Group("/api")

	// ---------- Auth ----------
	auth := api.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Limiter.LoginRateLimit(), d.Auth.Login)
	auth.GET("/me", middleware.AuthRequired(d.JWTSecret), d.Auth.Me)
	auth.POST("/logout", middleware.AuthRequired(d.JWTSecret), d.Auth.Logout)
	auth.GET("/:provider", d.Auth.BeginAuth)
	auth.GET("/:provider/callback", d.Auth.CallbackAuth)

	// ---------- Catalogue (public) ----------
	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/search", d.Products.Search)
	products.GET("/category/:category", d.Products.ByCategory)
	products.GET("/:id", d.Products.Get)
	products.GET("/:id/ws", d.Products.WebSocket)
	products.GET("/:id/comments", d.Comments.List)

	// Interactions produit (session requise)
	products.POST("/:id/like", middleware.AuthRequired(d.JWTSecret), d.Products.Like)
	products.POST("/:id/rate", middleware.AuthRequired(d.JWTSecret), d.Products.Rate)
	products.POST("/:id/comments", middleware.AuthRequired(d.JWTSecret), d.Comments.Add)
	products.POST("/:id/comments/:commentId/replies", middleware.AuthRequired(d.JWTSecret), d.Comments.Reply)

	// ---------- Panier (session requise, jamais d'écriture anonyme) ----------
	cart := api.Group("/cart", middleware.AuthRequired(d.JWTSecret))
	cart.GET("", d.Cart.Get)
	cart.GET("/ws", d.Cart.WebSocket)
	cart.POST("/add", d.Limiter.CartRateLimit(), d.Cart.Add)
	cart.POST("/:itemId/increase", d.Cart.Increase)
	cart.POST("/:itemId/decrease", d.Cart.Decrease)
	cart.PUT("/:itemId", d.Cart.SetQuantity)
	cart.DELETE("/:itemId", d.Cart.Remove)

	// ---------- Checkout ----------
	checkout := api.Group("/checkout", middleware.AuthRequired(d.JWTSecret))
	checkout.POST("/begin", d.Checkout.Begin)
	checkout.GET("", d.Checkout.Current)
	checkout.POST("/shipping", d.Checkout.Shipping)
	checkout.POST("/payment", d.Checkout.Payment)
	checkout.POST("/submit", d.Checkout.Submit)

	// ---------- Commandes ----------
	orders := api.Group("/orders")
	orders.GET("", middleware.AuthRequired(d.JWTSecret), d.Orders.Mine)
	orders.GET("/track/:trackingId", d.Orders.Track)
	orders.GET("/track/:trackingId/qr", d.Orders.TrackQR)

	// ---------- Profil ----------
	profile := api.Group("/profile", middleware.AuthRequired(d.JWTSecret))
	profile.GET("", d.Profile.Get)
	profile.PUT("", d.Profile.Update)
	profile.POST("/picture", d.Profile.UploadPicture)
	profile.PUT("/password", d.Profile.ChangePassword)

	// ---------- Contact ----------
	api.POST("/contact", d.Contact.Submit)

	// ---------- Console admin ----------
	admin := api.Group("/admin", middleware.AuthRequired(d.JWTSecret), middleware.RequireAdmin)
	admin.POST("/products", d.Admin.CreateProduct)
	admin.PUT("/products/:id", d.Admin.UpdateProduct)
	admin.DELETE("/products/:id", d.Admin.DeleteProduct)
	admin.POST("/products/:id/image", d.Admin.UploadProductImage)
	admin.GET("/products/export", d.Admin.ExportProductsXLSX)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.PUT("/orders/:id/status", d.Admin.UpdateOrderStatus)
	admin.GET("/stats", d.Admin.Stats)
}
