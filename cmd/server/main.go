package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"jamsfrag_back_end/internal/blob"
	"jamsfrag_back_end/internal/cart"
	"jamsfrag_back_end/internal/checkout"
	"jamsfrag_back_end/internal/config"
	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/handlers"
	"jamsfrag_back_end/internal/identity"
	"jamsfrag_back_end/internal/middleware"
	"jamsfrag_back_end/internal/notify"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/routes"
	"jamsfrag_back_end/internal/search"
	"jamsfrag_back_end/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET manquant dans .env")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Connexion aux bases impossible: %v", err)
	}
	defer db.Scylla.Close()

	initOAuthProviders(cfg)

	// ---------- Stores ----------
	products := store.NewScyllaProducts(db)
	carts := store.NewScyllaCarts(db)
	orders := store.NewScyllaOrders(db)
	users := store.NewScyllaUsers(db)
	comments := store.NewScyllaComments(db)
	contacts := store.NewScyllaContacts(db)

	// ---------- Services ----------
	bus := realtime.NewRedisBus(db.Redis)
	blobs := blob.NewMinioStorage(db.MinIO, db.Bucket)
	index := search.NewElasticIndex(db.Elastic, products)
	observer := identity.NewObserver()
	identitySvc := identity.NewService(users, cfg.JWTSecret, observer)
	cartSvc := cart.NewService(carts, products, bus)
	mailer := notify.NewMailer(&cfg)
	checkoutSvc := checkout.NewService(orders, cartSvc, checkout.NewRedisSessions(db.Redis), mailer)
	limiter := middleware.NewLimiter(db.Redis)

	// Journal des sessions, libéré à l'arrêt
	sessionLog := observer.Subscribe()
	defer sessionLog.Close()
	go func() {
		for ev := range sessionLog.Events() {
			log.Printf("👤 Session %s: %s", ev.Kind, ev.UserID)
		}
	}()

	// ---------- Routeur ----------
	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
		Auth:        handlers.NewAuth(identitySvc),
		Products:    handlers.NewProducts(products, comments, index, bus),
		Cart:        handlers.NewCart(cartSvc),
		Checkout:    handlers.NewCheckout(checkoutSvc),
		Orders:      handlers.NewOrders(orders, cfg.FrontendURL),
		Profile:     handlers.NewProfile(identitySvc, users, blobs),
		Admin:       handlers.NewAdmin(products, orders, index, blobs, bus),
		Comments:    handlers.NewComments(comments, users, bus),
		Contact:     handlers.NewContact(contacts),
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("🚀 Serveur Jams Fragrance lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Erreur serveur: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Arrêt demandé, fermeture en cours...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
	log.Println("✅ Serveur arrêté proprement")
}

func initOAuthProviders(cfg config.Config) {
	if cfg.SessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET manquant — OAuth désactivé")
		return
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	// Extraire le provider depuis l'URL plutôt que depuis le mux standard
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return
	}

	oauthCfg := config.GoogleOAuthConfig(cfg)
	goth.UseProviders(google.New(oauthCfg.ClientID, oauthCfg.ClientSecret, oauthCfg.RedirectURL))
	log.Println("✅ Google OAuth activé")
}
