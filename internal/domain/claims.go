package domain

import "github.com/golang-jwt/jwt/v5"

// Claims are the session claims issued by the external identity service.
// This API never creates sessions; it only validates the token signature and
// reads these fields for role checks and audit logging.
type Claims struct {
	UserID     int    `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserRoleID int    `json:"user_role_id"`
	jwt.RegisteredClaims
}
