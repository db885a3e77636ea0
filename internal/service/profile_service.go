package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/utils"
)

// ImageIntake stores user supplied images and removes them again
type ImageIntake interface {
	Process(ctx context.Context, value, purpose, ownerEmail string) (string, error)
	ProcessUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, purpose, ownerEmail string) (string, error)
	Remove(ctx context.Context, url string) error
}

// ProfileService builds profiles and manages account details
type ProfileService struct {
	accounts repository.AccountRepository
	recipes  repository.RecipeRepository
	images   ImageIntake
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	accounts repository.AccountRepository,
	recipes repository.RecipeRepository,
	images ImageIntake,
) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		recipes:  recipes,
		images:   images,
	}
}

// GetProfile returns the account's public data with its recipe totals and
// the average rating of its published recipes. The cached rating on the
// account is refreshed when it changed.
func (s *ProfileService) GetProfile(ctx context.Context, email string) (*models.Profile, error) {
	var (
		account     *models.Account
		published   int
		made        int
		saved       int
		rating      float64
		ratingCount int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		account, err = s.accounts.GetByEmail(gctx, email)
		return err
	})

	g.Go(func() error {
		for _, r := range s.recipes.ListByOwner(gctx, email) {
			made++
			if r.Publicada {
				published++
			}
		}
		return nil
	})

	g.Go(func() error {
		saved = len(s.recipes.ListSavedBy(gctx, email))
		return nil
	})

	g.Go(func() error {
		rating, ratingCount = s.recipes.OwnerRating(gctx, email)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		NombreUsuario:   account.NombreUsuario,
		Email:           account.Email,
		FotoPerfil:      account.FotoPerfil,
		TotalPublicadas: published,
		TotalGuardadas:  saved,
		TotalHechas:     made,
		ValoracionCount: ratingCount,
	}
	if ratingCount > 0 {
		profile.Valoracion = &rating
	}

	if ratingChanged(account, profile.Valoracion, ratingCount) {
		s.cacheRating(ctx, email, profile.Valoracion, ratingCount)
	}

	return profile, nil
}

func ratingChanged(account *models.Account, rating *float64, count int) bool {
	if account.ValoracionCount != count {
		return true
	}
	if (account.Valoracion == nil) != (rating == nil) {
		return true
	}
	return rating != nil && *account.Valoracion != *rating
}

// cacheRating stores the aggregate on the account. A failure only costs a stale cache.
func (s *ProfileService) cacheRating(ctx context.Context, email string, rating *float64, count int) {
	err := s.accounts.Update(ctx, email, func(account *models.Account) error {
		account.Valoracion = rating
		account.ValoracionCount = count
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str(constants.EmailContextKey, utils.MaskEmail(email)).Msg("Failed to cache owner rating")
	}
}

// UpdateUser changes the display name of the account
func (s *ProfileService) UpdateUser(ctx context.Context, email string, req *models.UpdateUserRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.NombreUsuario)
	if name == "" {
		return nil, utils.NewValidationError("nombreUsuario", constants.MsgValidation)
	}

	var updated models.Account
	err := s.accounts.Update(ctx, email, func(account *models.Account) error {
		account.NombreUsuario = name
		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str(constants.EmailContextKey, utils.MaskEmail(email)).
		Str("nombre_usuario", name).
		Msg("Account updated")

	return updated.Sanitize(), nil
}

// UploadPhoto stores a new profile picture and removes the previous one
func (s *ProfileService) UploadPhoto(ctx context.Context, email string, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.images.ProcessUpload(ctx, file, header, constants.PurposeProfile, email)
	if err != nil {
		return "", err
	}

	var previous string
	err = s.accounts.Update(ctx, email, func(account *models.Account) error {
		previous = account.FotoPerfil
		account.FotoPerfil = url
		return nil
	})
	if err != nil {
		s.removeImage(ctx, url)
		return "", err
	}

	if previous != "" && previous != url {
		s.removeImage(ctx, previous)
	}
	return url, nil
}

// DeletePhoto clears the profile picture of the account
func (s *ProfileService) DeletePhoto(ctx context.Context, email string) error {
	var previous string
	err := s.accounts.Update(ctx, email, func(account *models.Account) error {
		previous = account.FotoPerfil
		account.FotoPerfil = ""
		return nil
	})
	if err != nil {
		return err
	}

	s.removeImage(ctx, previous)
	return nil
}

func (s *ProfileService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Failed to remove image")
	}
}
