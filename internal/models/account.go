package models

import "strings"

// Account represents a registered user stored in cuentas.json.
// Password holds the clear text credential of records written before hashing
// was introduced; it is dropped as soon as the account is re-hashed.
type Account struct {
	NombreUsuario   string     `json:"nombreUsuario"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"passwordHash,omitempty"`
	PasswordSalt    string     `json:"passwordSalt,omitempty"`
	Password        string     `json:"password,omitempty"`
	FotoPerfil      string     `json:"fotoPerfil,omitempty"`
	Valoracion      *float64   `json:"valoracion,omitempty"`
	ValoracionCount int        `json:"valoracion_count,omitempty"`
	MenuSemanal     WeeklyMenu `json:"menuSemanal,omitempty"`
	FechaRegistro   string     `json:"fechaRegistro,omitempty"`
}

// NewAccount creates an account for the given name and email.
// Credentials are set later by the registration flow.
func NewAccount(nombre, email, fecha string) *Account {
	return &Account{
		NombreUsuario: strings.TrimSpace(nombre),
		Email:         strings.TrimSpace(email),
		FechaRegistro: fecha,
	}
}

// HasLegacyPassword reports whether the account still stores a clear text password
func (a *Account) HasLegacyPassword() bool {
	return a.PasswordHash == "" && a.Password != ""
}

// Sanitize returns a copy without credential fields
func (a *Account) Sanitize() *Account {
	sanitized := *a
	sanitized.PasswordHash = ""
	sanitized.PasswordSalt = ""
	sanitized.Password = ""
	return &sanitized
}

// Profile is the public view of an account returned by /api/perfil
type Profile struct {
	NombreUsuario   string   `json:"nombreUsuario"`
	Email           string   `json:"email"`
	FotoPerfil      string   `json:"fotoPerfil"`
	TotalPublicadas int      `json:"totalPublicadas"`
	TotalGuardadas  int      `json:"totalGuardadas"`
	TotalHechas     int      `json:"totalHechas"`
	Valoracion      *float64 `json:"valoracion"`
	ValoracionCount int      `json:"valoracion_count"`
}

// RegisterRequest is the body of POST /crear-cuenta
type RegisterRequest struct {
	NombreUsuario string `json:"nombreUsuario" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,max=255,email"`
	Password      string `json:"password" validate:"required,password_policy"`
}

// LoginRequest is the body of POST /iniciar-sesion.
// The password policy is not applied on login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the body of POST /api/actualizar-usuario
type UpdateUserRequest struct {
	NombreUsuario string `json:"nombreUsuario" validate:"required,max=50"`
}

// ChangePasswordRequest is the body of POST /api/cambiar-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password_policy"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
