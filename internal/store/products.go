package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

const productsCacheTTL = 10 * time.Minute

// ScyllaProducts persiste le catalogue dans ScyllaDB avec un cache Redis
// sur la liste complète.
type ScyllaProducts struct {
	DB    *database.Databases
	Redis *redis.Client
}

func NewScyllaProducts(db *database.Databases) *ScyllaProducts {
	return &ScyllaProducts{DB: db, Redis: db.Redis}
}

const productColumns = `product_id, name, description, price, discount, image_url, category, details, rating, rating_count, created_at, updated_at`

func (s *ScyllaProducts) GetAll(ctx context.Context) ([]models.Product, error) {
	cacheKey := "products:all"

	// ✅ Vérifie le cache Redis
	if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.ImageURL,
		&p.Category, &p.Details, &p.Rating, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	s.attachLikes(ctx, session, products)

	// ✅ Met en cache
	if data, err := json.Marshal(products); err == nil {
		s.Redis.Set(ctx, cacheKey, data, productsCacheTTL)
	}

	return products, nil
}

func (s *ScyllaProducts) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return nil, err
	}

	// ✅ Utilise la table products_by_category pour une requête optimisée
	iter := session.Query(`SELECT product_id, name, description, price, discount, image_url
		FROM products_by_category WHERE category = ?`, category).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.ImageURL) {
		p.Category = category
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	s.attachLikes(ctx, session, products)
	return products, nil
}

func (s *ScyllaProducts) Get(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.ImageURL,
			&p.Category, &p.Details, &p.Rating, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Likes = s.likesFor(ctx, session, id)
	return &p, nil
}

func (s *ScyllaProducts) Create(ctx context.Context, p *models.Product) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	p.ID = gocql.TimeUUID()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.ImageURL, p.Category,
		p.Details, p.Rating, p.RatingCount, p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// ✅ Indexe aussi dans products_by_category pour les requêtes par catégorie
	if err := session.Query(`INSERT INTO products_by_category (category, product_id, name, description, price, discount, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Category, p.ID, p.Name, p.Description, p.Price, p.Discount, p.ImageURL).WithContext(ctx).Exec(); err != nil {
		// Log l'erreur mais ne bloque pas la création
		log.Printf("⚠️ Erreur indexation products_by_category: %v", err)
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *ScyllaProducts) Update(ctx context.Context, p *models.Product) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	// Purge l'ancienne entrée d'index si la catégorie change
	var oldCategory string
	if err := session.Query(`SELECT category FROM products WHERE product_id = ?`, p.ID).
		WithContext(ctx).Scan(&oldCategory); err == nil && oldCategory != p.Category {
		if err := session.Query(`DELETE FROM products_by_category WHERE category = ? AND product_id = ?`,
			oldCategory, p.ID).WithContext(ctx).Exec(); err != nil {
			log.Printf("⚠️ Erreur purge ancienne catégorie %s: %v", oldCategory, err)
		}
	}

	p.UpdatedAt = time.Now()
	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, discount = ?, image_url = ?, category = ?, details = ?, updated_at = ?
		WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Discount, p.ImageURL, p.Category, p.Details, p.UpdatedAt, p.ID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO products_by_category (category, product_id, name, description, price, discount, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Category, p.ID, p.Name, p.Description, p.Price, p.Discount, p.ImageURL).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur réindexation products_by_category: %v", err)
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *ScyllaProducts) Delete(ctx context.Context, id gocql.UUID) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	// La catégorie est nécessaire pour purger l'index secondaire
	var category string
	if err := session.Query(`SELECT category FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&category); err != nil {
		if err == gocql.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query(`DELETE FROM products_by_category WHERE category = ? AND product_id = ?`, category, id).
		WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur purge products_by_category: %v", err)
	}

	s.invalidateListing(ctx)
	return nil
}

// Like incrémente le compteur de likes. Colonne counter ScyllaDB :
// l'incrément est atomique côté serveur, pas de read-then-write.
func (s *ScyllaProducts) Like(ctx context.Context, id gocql.UUID) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}
	return session.Query(`UPDATE product_likes SET likes = likes + 1 WHERE product_id = ?`, id).
		WithContext(ctx).Exec()
}

// Rate enregistre la note d'un utilisateur (une ligne par couple
// produit/utilisateur, écrasée en cas de re-notation) puis recalcule la
// moyenne dénormalisée sur le produit.
func (s *ScyllaProducts) Rate(ctx context.Context, id gocql.UUID, userID string, rating int) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO product_ratings (product_id, user_id, rating, rated_at)
		VALUES (?, ?, ?, ?)`, id, userID, rating, time.Now()).WithContext(ctx).Exec(); err != nil {
		return err
	}

	iter := session.Query(`SELECT rating FROM product_ratings WHERE product_id = ?`, id).
		WithContext(ctx).Iter()
	var total, count, r int
	for iter.Scan(&r) {
		total += r
		count++
	}
	if err := iter.Close(); err != nil {
		return err
	}

	average := 0.0
	if count > 0 {
		average = float64(total) / float64(count)
	}

	if err := session.Query(`UPDATE products SET rating = ?, rating_count = ?, updated_at = ? WHERE product_id = ?`,
		average, count, time.Now(), id).WithContext(ctx).Exec(); err != nil {
		return err
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *ScyllaProducts) likesFor(ctx context.Context, session *gocql.Session, id gocql.UUID) int64 {
	var likes int64
	if err := session.Query(`SELECT likes FROM product_likes WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&likes); err != nil {
		return 0 // pas encore de like
	}
	return likes
}

func (s *ScyllaProducts) attachLikes(ctx context.Context, session *gocql.Session, products []models.Product) {
	for i := range products {
		products[i].Likes = s.likesFor(ctx, session, products[i].ID)
	}
}

func (s *ScyllaProducts) invalidateListing(ctx context.Context) {
	s.Redis.Del(ctx, "products:all")
}
