package domain

import "strings"

// User is an account as listed by the admin API. Cedula arrives masked.
type User struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Correo    string `json:"correo"`
	Cedula    string `json:"cedula"`
	Carrera   string `json:"carrera"`
	CreatedAt string `json:"created_at"`
}

// Credentials is a login request.
type Credentials struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

// Registration creates a user or, with Admin set, an administrator.
type Registration struct {
	Nombre     string `json:"nombre"`
	Apellido   string `json:"apellido"`
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
	Cedula     string `json:"cedula"`
	Carrera    string `json:"carrera"`
	Admin      bool   `json:"admin,omitempty"`
}

// UserUpdate is a partial account edit. Empty fields are left untouched.
type UserUpdate struct {
	Nombre     string `json:"nombre,omitempty"`
	Apellido   string `json:"apellido,omitempty"`
	Correo     string `json:"correo,omitempty"`
	Contrasena string `json:"contrasena,omitempty"`
	Cedula     string `json:"cedula,omitempty"`
	Carrera    string `json:"carrera,omitempty"`
}

// Empty reports whether the update carries no change.
func (u UserUpdate) Empty() bool {
	return u == UserUpdate{}
}

// PasswordValid reports whether p is 8 to 12 ASCII letters and digits with
// at least one of each, the policy enforced by the auth API.
func PasswordValid(p string) bool {
	if len(p) < 8 || len(p) > 12 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		default:
			return false
		}
	}
	return letter && digit
}

// InstitutionalEmail reports whether addr belongs to one of the
// institutional domains.
func InstitutionalEmail(addr string) bool {
	addr = strings.ToLower(strings.TrimSpace(addr))
	for _, d := range InstitutionalDomains {
		if strings.HasSuffix(addr, d) && len(addr) > len(d) {
			return true
		}
	}
	return false
}
