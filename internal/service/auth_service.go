package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/utils"
)

// AuthService handles registration, login and password changes
type AuthService struct {
	accounts repository.AccountRepository
	hasher   repository.PasswordHasher
	verifier EmailVerifier
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts repository.AccountRepository,
	hasher repository.PasswordHasher,
	verifier EmailVerifier,
) *AuthService {
	if verifier == nil {
		verifier = NoopEmailVerifier{}
	}
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		verifier: verifier,
		now:      time.Now,
	}
}

// Register creates a new account. The request must already be validated.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	email := utils.NormalizeEmail(req.Email)

	if s.accounts.Exists(ctx, email) {
		utils.LogAuth(constants.LogEventRegister, email, false, "duplicate email")
		return nil, utils.NewDuplicateEmailError(email)
	}

	if ok, msg := s.verifier.Verify(ctx, email); !ok {
		utils.LogAuth(constants.LogEventRegister, email, false, "email verification failed")
		return nil, utils.NewRuleError(constants.CodeInvalidEmail, msg)
	}

	hash, salt, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	account := models.NewAccount(req.NombreUsuario, email, s.now().UTC().Format(time.RFC3339))
	account.PasswordHash = hash
	account.PasswordSalt = salt

	if err := s.accounts.Create(ctx, account); err != nil {
		utils.LogAuth(constants.LogEventRegister, email, false, err.Error())
		return nil, err
	}

	utils.LogAuth(constants.LogEventRegister, email, true, "")
	return account.Sanitize(), nil
}

// Login checks the credentials and returns the account they belong to
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, error) {
	account, err := s.accounts.ValidateCredentials(ctx, utils.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		utils.LogAuth(constants.LogEventLogin, req.Email, false, err.Error())
		return nil, err
	}

	utils.LogAuth(constants.LogEventLogin, account.Email, true, "")
	return account.Sanitize(), nil
}

// ChangePassword replaces the password of the account after checking the current one.
// Legacy clear text credentials are dropped in the same write.
func (s *AuthService) ChangePassword(ctx context.Context, email string, req *models.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return utils.NewRuleError(constants.CodePasswordMismatch, constants.MsgPasswordMismatch)
	}

	if _, err := s.accounts.ValidateCredentials(ctx, email, req.CurrentPassword); err != nil {
		if utils.HasCode(err, constants.CodeInvalidCredentials) {
			utils.LogAuth(constants.LogEventPassword, email, false, "wrong current password")
			return utils.NewRuleError(constants.CodeWrongPassword, constants.MsgWrongPassword)
		}
		return err
	}

	hash, salt, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return utils.NewInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	err = s.accounts.Update(ctx, email, func(account *models.Account) error {
		account.PasswordHash = hash
		account.PasswordSalt = salt
		account.Password = ""
		return nil
	})
	if err != nil {
		return err
	}

	utils.LogAuth(constants.LogEventPassword, email, true, "")
	log.Debug().Str("email", utils.MaskEmail(email)).Msg("Password changed")
	return nil
}
