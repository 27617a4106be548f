package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoAdminPassword signale qu'aucun mot de passe admin n'est configuré
var ErrNoAdminPassword = errors.New("aucun mot de passe admin configuré")

// HashPassword hache un mot de passe en utilisant bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword vérifie si un mot de passe correspond à son hash
func CheckPassword(hashedPassword, password string) bool {
	if hashedPassword == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// ResolveAdminHash renvoie le hash bcrypt du mot de passe admin.
// ADMIN_PASSWORD_HASH prime ; sinon ADMIN_PASSWORD est haché au démarrage.
func ResolveAdminHash(plain, hash string) (string, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", err
		}
		return hash, nil
	}
	if plain == "" {
		return "", ErrNoAdminPassword
	}
	return HashPassword(plain)
}
