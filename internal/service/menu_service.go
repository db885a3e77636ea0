package service

import (
	"context"
	"math/rand"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/utils"
)

// MenuService manages the weekly menu stored on each account
type MenuService struct {
	accounts repository.AccountRepository
	recipes  repository.RecipeRepository
	intn     func(n int) int
}

// NewMenuService creates a new MenuService
func NewMenuService(accounts repository.AccountRepository, recipes repository.RecipeRepository) *MenuService {
	return &MenuService{
		accounts: accounts,
		recipes:  recipes,
		intn:     rand.Intn,
	}
}

// Get returns the saved menu with each slot resolved to its recipe.
// Nil means the account has no menu. Names resolve against the caller's own
// recipes first, then the ones they saved. Anything else comes back empty.
func (s *MenuService) Get(ctx context.Context, email string) (models.ResolvedMenu, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.MenuSemanal == nil {
		return nil, nil
	}

	byName := make(map[string]*models.Recipe)
	if names := account.MenuSemanal.RecipeNames(); len(names) > 0 {
		wanted := make(map[string]bool, len(names))
		for _, name := range names {
			wanted[name] = true
		}

		pool := append(s.recipes.ListByOwner(ctx, email), s.recipes.ListSavedBy(ctx, email)...)
		for i := range pool {
			r := &pool[i]
			if _, seen := byName[r.NombreReceta]; seen || !wanted[r.NombreReceta] || !r.VisibleTo(email) {
				continue
			}
			byName[r.NombreReceta] = r
		}
	}

	menu := models.NewResolvedMenu()
	for day, slots := range account.MenuSemanal.Complete() {
		for slot, name := range slots {
			if name == nil {
				continue
			}
			if r, ok := byName[*name]; ok {
				menu[day][slot] = slotFor(r)
			}
		}
	}
	return menu, nil
}

// Generate fills every slot with a random recipe among the caller's own and saved
// recipes served at that meal. Slots without a candidate stay empty. The menu is not saved.
func (s *MenuService) Generate(ctx context.Context, email string) models.ResolvedMenu {
	candidates := make(map[string][]*models.Recipe, len(constants.MenuSlots))
	seen := make(map[string]bool)

	pool := append(s.recipes.ListByOwner(ctx, email), s.recipes.ListSavedBy(ctx, email)...)
	for i := range pool {
		r := &pool[i]
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		turno := strings.ToLower(r.TurnoComida.Trimmed())
		candidates[turno] = append(candidates[turno], r)
	}

	menu := models.NewResolvedMenu()
	filled := 0
	for _, day := range constants.MenuDays {
		for _, slot := range constants.MenuSlots {
			options := candidates[slot]
			if len(options) == 0 {
				continue
			}
			menu[day][slot] = slotFor(options[s.intn(len(options))])
			filled++
		}
	}

	log.Debug().
		Str(constants.EmailContextKey, utils.MaskEmail(email)).
		Int("candidatas", len(seen)).
		Int("huecos_rellenos", filled).
		Msg("Weekly menu generated")

	return menu
}

// Save stores the menu on the account. Unknown days or slots are rejected.
func (s *MenuService) Save(ctx context.Context, email string, menu models.WeeklyMenu) error {
	if menu == nil || !menu.Validate() {
		return utils.NewRuleError(constants.CodeInvalidMenu, constants.MsgInvalidMenu)
	}

	complete := menu.Complete()
	return s.accounts.Update(ctx, email, func(account *models.Account) error {
		account.MenuSemanal = complete
		return nil
	})
}

// Delete removes the account's menu
func (s *MenuService) Delete(ctx context.Context, email string) error {
	return s.accounts.Update(ctx, email, func(account *models.Account) error {
		account.MenuSemanal = nil
		return nil
	})
}

func slotFor(r *models.Recipe) *models.MenuSlot {
	return &models.MenuSlot{
		NombreReceta: r.NombreReceta,
		FotoReceta:   r.FotoReceta,
	}
}
