package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

const userCacheTTL = 5 * time.Minute

// ScyllaUsers persiste les comptes, avec une table inversée users_by_email
// pour le login et un cache Redis par utilisateur. Toute écriture invalide
// l'entrée de cache correspondante.
type ScyllaUsers struct {
	DB    *database.Databases
	Redis *redis.Client
}

func NewScyllaUsers(db *database.Databases) *ScyllaUsers {
	return &ScyllaUsers{DB: db, Redis: db.Redis}
}

func userCacheKey(id string) string { return "user:" + id }

func (s *ScyllaUsers) Get(ctx context.Context, id string) (*models.User, error) {
	// ✅ Vérifie le cache Redis
	if data, err := s.Redis.Get(ctx, userCacheKey(id)).Result(); err == nil {
		var cached models.User
		if json.Unmarshal([]byte(data), &cached) == nil {
			return &cached, nil
		}
	}

	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return nil, err
	}

	var u models.User
	u.ID = id
	err = session.Query(`SELECT email, password, name, role, provider, provider_id, profile_picture
		FROM users WHERE user_id = ?`, id).WithContext(ctx).
		Scan(&u.Email, &u.Password, &u.Name, &u.Role, &u.Provider, &u.ProviderID, &u.ProfilePicture)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(&u); err == nil {
		s.Redis.Set(ctx, userCacheKey(id), data, userCacheTTL)
	}
	return &u, nil
}

func (s *ScyllaUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return nil, err
	}

	var userID string
	err = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

func (s *ScyllaUsers) Create(ctx context.Context, u *models.User) error {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query(`INSERT INTO users (user_id, email, password, name, role, provider, provider_id, profile_picture, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Password, u.Name, u.Role, u.Provider, u.ProviderID, u.ProfilePicture, now, now).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, u.Email, u.ID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	s.Redis.Del(ctx, userCacheKey(u.ID))
	return nil
}

func (s *ScyllaUsers) UpdateProfile(ctx context.Context, id, name, picture string) error {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}
	if err := session.Query(`UPDATE users SET name = ?, profile_picture = ?, updated_at = ? WHERE user_id = ?`,
		name, picture, time.Now(), id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	s.Redis.Del(ctx, userCacheKey(id))
	return nil
}

func (s *ScyllaUsers) UpdatePassword(ctx context.Context, id, hash string) error {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}
	if err := session.Query(`UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?`,
		hash, time.Now(), id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	s.Redis.Del(ctx, userCacheKey(id))
	return nil
}
