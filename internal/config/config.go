package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur. Elle est construite une
// fois au démarrage puis injectée explicitement dans les composants qui en ont
// besoin — aucun composant ne relit l'environnement lui-même.
type Config struct {
	Port        string
	BaseURL     string
	FrontendURL string

	JWTSecret     string
	SessionSecret string

	ScyllaHosts      []string
	ScyllaSSLEnabled bool
	ScyllaCACertPath string
	UsersKeyspace    KeyspaceCredentials
	ProductsKeyspace KeyspaceCredentials
	OrdersKeyspace   KeyspaceCredentials

	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SMTPHost     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	GoogleClientID     string
	GoogleClientSecret string
}

type KeyspaceCredentials struct {
	Keyspace string
	Role     string
	Password string
}

// Load charge .env puis construit la Config depuis l'environnement.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		ScyllaHosts:      strings.Split(getEnv("SCYLLA_HOSTS", "127.0.0.1"), ","),
		ScyllaSSLEnabled: strings.ToLower(os.Getenv("SCYLLA_SSL_ENABLED")) == "true",
		ScyllaCACertPath: os.Getenv("SCYLLA_SSL_CA_PATH"),
		UsersKeyspace: KeyspaceCredentials{
			Keyspace: getEnv("SCYLLA_KS_USERS_KEYSPACE", "jamsfrag_users"),
			Role:     os.Getenv("SCYLLA_KS_USERS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_USERS_PASSWORD"),
		},
		ProductsKeyspace: KeyspaceCredentials{
			Keyspace: getEnv("SCYLLA_KS_PRODUCTS_KEYSPACE", "jamsfrag_products"),
			Role:     os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),
		},
		OrdersKeyspace: KeyspaceCredentials{
			Keyspace: getEnv("SCYLLA_KS_ORDERS_KEYSPACE", "jamsfrag_orders"),
			Role:     os.Getenv("SCYLLA_KS_ORDERS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_ORDERS_PASSWORD"),
		},

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "jamsfrag-images"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@jamsfrag.com"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
