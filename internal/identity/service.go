// Package identity gère les comptes : inscription et login locaux, login
// Google via goth, et la notification des changements de session.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gocql/gocql"
	"github.com/markbates/goth"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
	"jamsfrag_back_end/internal/utils"
)

var (
	// ErrEmailTaken : un compte local existe déjà pour cet email.
	ErrEmailTaken = errors.New("un compte avec cet email existe déjà")
	// ErrInvalidCredentials : email inconnu ou mot de passe incorrect. Le
	// message ne distingue jamais les deux cas.
	ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")
)

// Service : opérations de compte, injecté dans les handlers.
type Service struct {
	users     store.Users
	jwtSecret string
	observer  *Observer
}

func NewService(users store.Users, jwtSecret string, observer *Observer) *Service {
	return &Service{users: users, jwtSecret: jwtSecret, observer: observer}
}

// SignUp crée un compte local. Le mot de passe est hashé en Argon2id avant
// toute écriture.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", errors.New("email et mot de passe obligatoires")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash mot de passe: %w", err)
	}

	user := &models.User{
		ID:       gocql.TimeUUID().String(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     "customer",
		Provider: "local",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user)
	if err != nil {
		return nil, "", err
	}

	log.Printf("✅ Compte créé: %s", email)
	s.observer.notifySignIn(user)
	return user, token, nil
}

// Login vérifie les identifiants locaux et délivre un JWT.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user)
	if err != nil {
		return nil, "", err
	}

	s.observer.notifySignIn(user)
	return user, token, nil
}

// CompleteOAuth rattache (ou crée paresseusement) le compte correspondant à
// une identité sociale validée par goth.
func (s *Service) CompleteOAuth(ctx context.Context, gu goth.User) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(gu.Email))
	if email == "" {
		return nil, "", errors.New("le provider n'a pas fourni d'email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Création paresseuse au premier login social
		user = &models.User{
			ID:             gocql.TimeUUID().String(),
			Name:           gu.Name,
			Email:          email,
			Role:           "customer",
			Provider:       gu.Provider,
			ProviderID:     gu.UserID,
			ProfilePicture: gu.AvatarURL,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
		log.Printf("✅ Compte %s créé via %s", email, gu.Provider)
	} else if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user)
	if err != nil {
		return nil, "", err
	}

	s.observer.notifySignIn(user)
	return user, token, nil
}

// Current relit l'utilisateur porté par un jeton. L'absence d'identité sur
// les routes publiques n'est pas une erreur : c'est au handler de décider.
func (s *Service) Current(ctx context.Context, userID string) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

// SignOut ne révoque rien côté serveur (le JWT expire seul) mais prévient
// les abonnés de l'observer.
func (s *Service) SignOut(userID string) {
	s.observer.notifySignOut(userID)
}

// UpdateProfile change le nom affiché et la photo. L'email est immuable.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, picture string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("le nom ne peut pas être vide")
	}
	if err := s.users.UpdateProfile(ctx, userID, name, picture); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

// ChangePassword vérifie l'ancien mot de passe puis enregistre le nouveau.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Provider != "local" && user.Password == "" {
		return errors.New("ce compte utilise un login social")
	}

	ok, err := utils.VerifyPassword(current, user.Password)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}
	if len(next) < 6 {
		return errors.New("le nouveau mot de passe doit faire au moins 6 caractères")
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
