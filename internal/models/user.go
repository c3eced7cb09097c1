package models

// User is the signed-in account as returned by the auth endpoints.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Credentials are posted to the sign-in endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the sign-in response body.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
