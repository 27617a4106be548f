package utils

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin est le seul rôle émis aujourd'hui (tableau de bord + scanner)
const RoleAdmin = "admin"

// TokenTTL est la durée de validité d'un token admin
const TokenTTL = 24 * time.Hour

// StaticTokenSubject identifie les clients authentifiés par ADMIN_API_TOKEN
const StaticTokenSubject = "static-token"

// ErrTokenMissing est renvoyée quand aucun token n'est fourni
var ErrTokenMissing = errors.New("token manquant")

// Claims représente les revendications JWT personnalisées
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken génère un token JWT signé pour le tableau de bord
func GenerateToken(subject, role, secret string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("erreur lors de la signature du token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valide un token JWT et retourne les revendications
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature invalide: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("erreur lors du parsing du token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token invalide")
	}

	return claims, nil
}

// AuthenticateAdmin accepte un JWT signé avec secret, ou le token statique
// configuré (scanners et anciens tableaux de bord). Un token statique vide
// est désactivé.
func AuthenticateAdmin(tokenString, secret, staticToken string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	if staticToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(staticToken)) == 1 {
		return &Claims{
			Role:             RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: StaticTokenSubject},
		}, nil
	}

	return ValidateToken(tokenString, secret)
}
