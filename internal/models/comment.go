package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Reply est embarquée dans le commentaire parent : pas d'identité propre,
// donc pas d'édition ni de suppression individuelle.
type Reply struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        gocql.UUID `json:"id" db:"comment_id"`
	ProductID gocql.UUID `json:"productId" db:"product_id"`
	UserID    string     `json:"userId" db:"user_id"`
	UserName  string     `json:"userName" db:"user_name"`
	Text      string     `json:"text" db:"text"`
	Replies   []Reply    `json:"replies" db:"replies"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
