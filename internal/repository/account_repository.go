package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/database"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/utils"
)

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	Hash(password string) (hash string, salt string, err error)
	Verify(password, hash, salt string) (bool, error)
}

// AccountRepository defines methods for interacting with account data
type AccountRepository interface {
	Exists(ctx context.Context, email string) bool
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ValidateCredentials(ctx context.Context, email, password string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, email string, fn func(account *models.Account) error) error
	HealthCheck(ctx context.Context) error
}

// JSONAccountRepository is an AccountRepository backed by cuentas.json
type JSONAccountRepository struct {
	store  database.Collection[models.Account]
	hasher PasswordHasher
	now    func() time.Time
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(store database.Collection[models.Account], hasher PasswordHasher) AccountRepository {
	return &JSONAccountRepository{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

// findAccount returns the index of the account with the given email, or -1
func findAccount(accounts []models.Account, email string) int {
	for i := range accounts {
		if utils.SameEmail(accounts[i].Email, email) {
			return i
		}
	}
	return -1
}

// Exists checks whether an account with the email is registered
func (r *JSONAccountRepository) Exists(ctx context.Context, email string) bool {
	return findAccount(r.store.Load(ctx), email) >= 0
}

// GetByEmail retrieves an account by email
func (r *JSONAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	accounts := r.store.Load(ctx)

	i := findAccount(accounts, email)
	if i < 0 {
		return nil, utils.NewNotFoundError(constants.CodeUserNotFound, constants.MsgUserNotFound)
	}

	account := accounts[i]
	return &account, nil
}

// ValidateCredentials returns the account matching email and password.
// Accounts still holding a clear text password are re-hashed after a successful match.
func (r *JSONAccountRepository) ValidateCredentials(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewInvalidCredentialsError()
	}

	if account.HasLegacyPassword() {
		if !auth.VerifyLegacyPassword(password, account.Password) {
			return nil, utils.NewInvalidCredentialsError()
		}
		r.rehash(ctx, account, password)
		return account, nil
	}

	if account.PasswordHash == "" {
		return nil, utils.NewInvalidCredentialsError()
	}

	ok, err := r.hasher.Verify(password, account.PasswordHash, account.PasswordSalt)
	if err != nil {
		log.Error().Err(err).Str(constants.EmailContextKey, utils.MaskEmail(email)).Msg("Stored password hash is unreadable")
		return nil, utils.NewInvalidCredentialsError()
	}
	if !ok {
		return nil, utils.NewInvalidCredentialsError()
	}

	return account, nil
}

// rehash replaces a legacy clear text password with its hash.
// A failure is logged and retried on the next login.
func (r *JSONAccountRepository) rehash(ctx context.Context, account *models.Account, password string) {
	hash, salt, err := r.hasher.Hash(password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash legacy password")
		return
	}

	err = r.Update(ctx, account.Email, func(a *models.Account) error {
		a.PasswordHash = hash
		a.PasswordSalt = salt
		a.Password = ""
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str(constants.EmailContextKey, utils.MaskEmail(account.Email)).Msg("Failed to upgrade legacy password")
		return
	}

	account.PasswordHash = hash
	account.PasswordSalt = salt
	account.Password = ""

	log.Info().Str(constants.EmailContextKey, utils.MaskEmail(account.Email)).Msg("Legacy password upgraded")
}

// Create adds a new account. The email must not be registered yet.
func (r *JSONAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.FechaRegistro == "" {
		account.FechaRegistro = r.now().Format(time.RFC3339)
	}

	err := r.store.Update(ctx, func(accounts []models.Account) ([]models.Account, error) {
		if findAccount(accounts, account.Email) >= 0 {
			return nil, utils.NewDuplicateEmailError(account.Email)
		}
		return append(accounts, *account), nil
	})
	if err != nil {
		return storeError(err)
	}

	log.Info().
		Str(constants.EmailContextKey, utils.MaskEmail(account.Email)).
		Str("nombre_usuario", account.NombreUsuario).
		Msg("Account created")

	return nil
}

// Update applies fn to the stored account with the given email and saves the result.
// The email itself cannot be changed through fn.
func (r *JSONAccountRepository) Update(ctx context.Context, email string, fn func(account *models.Account) error) error {
	err := r.store.Update(ctx, func(accounts []models.Account) ([]models.Account, error) {
		i := findAccount(accounts, email)
		if i < 0 {
			return nil, utils.NewNotFoundError(constants.CodeUserNotFound, constants.MsgUserNotFound)
		}

		stored := accounts[i].Email
		if err := fn(&accounts[i]); err != nil {
			return nil, err
		}
		accounts[i].Email = stored

		return accounts, nil
	})
	return storeError(err)
}

// HealthCheck verifies the accounts store is writable
func (r *JSONAccountRepository) HealthCheck(ctx context.Context) error {
	return r.store.HealthCheck(ctx)
}
