// Package handlers provides HTTP request handlers for the recipe API.
package handlers

import (
	"context"

	"github.com/proyectoiso/recetario/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// This interface is used by the auth handlers to interact with the account business logic
// without being tightly coupled to the implementation.
type AuthServiceInterface interface {
	// Register creates an account from the registration payload.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Name, email and password of the new account
	//
	// Returns:
	//   - The created account without credentials
	//   - An error if the email is taken, undeliverable or the store cannot be written
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)

	// Login checks the credentials of an account.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - req: Email and password
	//
	// Returns:
	//   - The authenticated account without credentials
	//   - CREDENCIALES_INCORRECTAS if the email is unknown or the password is wrong
	Login(ctx context.Context, req *models.LoginRequest) (*models.Account, error)

	// ChangePassword replaces the password of an account after checking the current one.
	ChangePassword(ctx context.Context, email string, req *models.ChangePasswordRequest) error
}
