// Package auth reads the identity established by the fronting auth
// service and maps its error codes to user-facing messages. The service
// itself (sign-in, sign-out, token issuance) is an external collaborator;
// requests arrive with trusted identity headers set by it.
package auth

import (
	"context"
	"net/http"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

type Identity struct {
	ID    string
	Email string
}

// FromRequest extracts the proxied identity. ok is false for anonymous
// requests.
func FromRequest(r *http.Request) (Identity, bool) {
	id := r.Header.Get(HeaderUserID)
	if id == "" {
		return Identity{}, false
	}
	return Identity{ID: id, Email: r.Header.Get(HeaderUserEmail)}, true
}

// RoleChecker reports whether an identity is an administrator.
type RoleChecker interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
}

// Provider error codes mapped to localized messages; anything unknown
// gets the generic one.
var errorMessages = map[string]string{
	"auth/email-already-in-use":   "Cet email est déjà utilisé",
	"auth/invalid-email":          "Adresse email invalide",
	"auth/weak-password":          "Mot de passe trop faible (min. 6 caractères)",
	"auth/user-disabled":          "Ce compte a été désactivé",
	"auth/user-not-found":         "Email ou mot de passe incorrect",
	"auth/wrong-password":         "Email ou mot de passe incorrect",
	"auth/too-many-requests":      "Trop de tentatives. Réessayez plus tard",
	"auth/network-request-failed": "Erreur réseau. Vérifiez votre connexion",
}

func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Erreur de connexion. Réessayez."
}
