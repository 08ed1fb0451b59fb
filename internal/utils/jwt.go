package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jamsfrag_back_end/internal/models"
)

// GenerateJWT signe un jeton de session pour l'utilisateur. Le secret vient de
// la configuration injectée, jamais de l'environnement directement.
func GenerateJWT(secret string, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// TokenClaims : l'identité extraite d'un jeton valide.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// ParseJWT valide la signature et l'expiration puis extrait les claims.
func ParseJWT(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("méthode de signature inattendue")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("jeton invalide")
	}

	tc := &TokenClaims{}
	if v, ok := claims["user_id"].(string); ok {
		tc.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		tc.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		tc.Role = v
	}
	if tc.UserID == "" {
		return nil, errors.New("jeton sans user_id")
	}
	return tc, nil
}
