package utils

import (
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("admin", RoleAdmin, "test-secret-key")
	if err != nil {
		t.Fatalf("GenerateToken() erreur = %v", err)
	}
	if token == "" {
		t.Error("GenerateToken() ne doit pas retourner une chaîne vide")
	}
}

func TestValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken("admin", RoleAdmin, secret)
	if err != nil {
		t.Fatalf("GenerateToken() erreur = %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() erreur = %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("Subject = %v, attendu admin", claims.Subject)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %v, attendu %v", claims.Role, RoleAdmin)
	}
}

func TestValidateTokenMauvaisSecret(t *testing.T) {
	token, _ := GenerateToken("admin", RoleAdmin, "secret1")
	if _, err := ValidateToken(token, "secret2"); err == nil {
		t.Error("ValidateToken() devrait échouer avec un mauvais secret")
	}
}

func TestValidateTokenInvalide(t *testing.T) {
	if _, err := ValidateToken("invalid-token", "secret"); err == nil {
		t.Error("ValidateToken() devrait échouer avec un token invalide")
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	secret := "test-secret-key"
	jwtToken, err := GenerateToken("admin", RoleAdmin, secret)
	if err != nil {
		t.Fatalf("GenerateToken() erreur = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		static  string
		wantErr bool
		subject string
	}{
		{"token vide", "", "admin123", true, ""},
		{"jwt valide", jwtToken, "", false, "admin"},
		{"token statique", "admin123", "admin123", false, StaticTokenSubject},
		{"token statique désactivé", "admin123", "", true, ""},
		{"mauvais token", "wrong", "admin123", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := AuthenticateAdmin(tt.token, secret, tt.static)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AuthenticateAdmin() erreur = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (claims.Subject != tt.subject || claims.Role != RoleAdmin) {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}
