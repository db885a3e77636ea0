package handlers

import (
	"context"
	"mime/multipart"

	"github.com/proyectoiso/recetario/internal/models"
)

// ProfileServiceInterface defines the methods required from the profile service.
type ProfileServiceInterface interface {
	// GetProfile returns the public profile of an account with its recipe totals.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - email: The account email
	//
	// Returns:
	//   - The profile with totals and cached rating
	//   - USUARIO_NO_ENCONTRADO if the account no longer exists
	GetProfile(ctx context.Context, email string) (*models.Profile, error)

	// UpdateUser renames an account.
	UpdateUser(ctx context.Context, email string, req *models.UpdateUserRequest) (*models.Account, error)

	// UploadPhoto stores a new profile photo and returns its URL.
	// The previous photo, if any, is removed.
	UploadPhoto(ctx context.Context, email string, file multipart.File, header *multipart.FileHeader) (string, error)

	// DeletePhoto clears the profile photo of an account.
	DeletePhoto(ctx context.Context, email string) error
}

// HealthChecker reports whether a backing store is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
