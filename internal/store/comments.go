package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

// ScyllaComments persiste les commentaires par produit. Les réponses sont
// embarquées en JSON dans la ligne du commentaire parent : pas d'identité
// propre, donc ni édition ni suppression individuelle (dernier écrivain gagne).
type ScyllaComments struct {
	DB *database.Databases
}

func NewScyllaComments(db *database.Databases) *ScyllaComments {
	return &ScyllaComments{DB: db}
}

func (s *ScyllaComments) ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Comment, error) {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT comment_id, user_id, user_name, text, replies, created_at
		FROM comments_by_product WHERE product_id = ?`, productID).WithContext(ctx).Iter()

	var comments []models.Comment
	var c models.Comment
	var repliesJSON string
	for iter.Scan(&c.ID, &c.UserID, &c.UserName, &c.Text, &repliesJSON, &c.CreatedAt) {
		c.ProductID = productID
		if repliesJSON != "" {
			if err := json.Unmarshal([]byte(repliesJSON), &c.Replies); err != nil {
				log.Printf("⚠️ Erreur décodage réponses commentaire %s: %v", c.ID, err)
			}
		}
		comments = append(comments, c)
		c = models.Comment{}
		repliesJSON = ""
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *ScyllaComments) Add(ctx context.Context, c *models.Comment) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	c.ID = gocql.TimeUUID()
	c.CreatedAt = time.Now()

	return session.Query(`INSERT INTO comments_by_product (product_id, comment_id, user_id, user_name, text, replies, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ProductID, c.ID, c.UserID, c.UserName, c.Text, "[]", c.CreatedAt).
		WithContext(ctx).Exec()
}

func (s *ScyllaComments) AddReply(ctx context.Context, productID, commentID gocql.UUID, reply models.Reply) error {
	session, err := s.DB.Scylla.ProductsSession()
	if err != nil {
		return err
	}

	var repliesJSON string
	err = session.Query(`SELECT replies FROM comments_by_product WHERE product_id = ? AND comment_id = ?`,
		productID, commentID).WithContext(ctx).Scan(&repliesJSON)
	if err == gocql.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var replies []models.Reply
	if repliesJSON != "" {
		_ = json.Unmarshal([]byte(repliesJSON), &replies)
	}
	replies = append(replies, reply)

	data, err := json.Marshal(replies)
	if err != nil {
		return err
	}

	return session.Query(`UPDATE comments_by_product SET replies = ? WHERE product_id = ? AND comment_id = ?`,
		string(data), productID, commentID).WithContext(ctx).Exec()
}
