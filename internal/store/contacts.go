package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

type ScyllaContacts struct {
	DB *database.Databases
}

func NewScyllaContacts(db *database.Databases) *ScyllaContacts {
	return &ScyllaContacts{DB: db}
}

func (s *ScyllaContacts) Add(ctx context.Context, m *models.ContactMessage) error {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}

	m.ID = gocql.TimeUUID()
	m.CreatedAt = time.Now()

	return session.Query(`INSERT INTO contact_messages (message_id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, m.CreatedAt).WithContext(ctx).Exec()
}
