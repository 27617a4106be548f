package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contient toutes les configurations de l'application
type Config struct {
	Port           string
	Host           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	Environment    string
	LogLevel       string
	CORSOrigins    []string
	PublicBaseURL  string
	AdminPassword  string
	AdminPassHash  string
	AdminAPIToken  string
	SlackWebhook   string
	DigestSchedule string
	SMTP           SMTPConfig
}

// SMTPConfig regroupe les paramètres d'envoi des e-pass par email
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled indique si l'envoi d'emails est configuré
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load charge la configuration depuis les variables d'environnement
func Load() (*Config, error) {
	// Charger le fichier .env s'il existe
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8090"),
		Host:           getEnv("HOST", "0.0.0.0"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "influencia_db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8090"), "/"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminPassHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminAPIToken:  getEnv("ADMIN_API_TOKEN", ""),
		SlackWebhook:   getEnv("SLACK_WEBHOOK_URL", ""),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 20 * * *"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@influencia.events"),
		},
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT invalide: %w", err)
	}
	config.SMTP.Port = smtpPort

	config.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	// Valider les configurations critiques
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET est requis")
	}

	return config, nil
}

// splitList découpe une liste séparée par des virgules en ignorant les entrées vides
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv récupère une variable d'environnement avec une valeur par défaut
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
