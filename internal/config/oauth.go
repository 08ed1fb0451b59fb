package config

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleOAuthConfig construit la configuration OAuth2 Google pour le flow web.
func GoogleOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  cfg.BaseURL + "/api/auth/google/callback",
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}
