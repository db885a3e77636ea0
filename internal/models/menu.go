package models

import (
	"github.com/proyectoiso/recetario/internal/constants"
)

// WeeklyMenu maps a day to its meal slots, each holding a recipe name or nil
type WeeklyMenu map[string]map[string]*string

// MenuSlot is a resolved slot returned to the client
type MenuSlot struct {
	NombreReceta string `json:"nombreReceta"`
	FotoReceta   string `json:"fotoReceta"`
}

// ResolvedMenu is a weekly menu whose slots carry recipe details
type ResolvedMenu map[string]map[string]*MenuSlot

// MenuRequest is the body of POST /api/menu-semanal/guardar-manual
type MenuRequest struct {
	MenuSemanal WeeklyMenu `json:"menuSemanal" validate:"required"`
}

// NewResolvedMenu returns a menu with every day and slot present and empty
func NewResolvedMenu() ResolvedMenu {
	menu := make(ResolvedMenu, len(constants.MenuDays))
	for _, day := range constants.MenuDays {
		slots := make(map[string]*MenuSlot, len(constants.MenuSlots))
		for _, slot := range constants.MenuSlots {
			slots[slot] = nil
		}
		menu[day] = slots
	}
	return menu
}

// Validate reports whether every day and slot key is known
func (m WeeklyMenu) Validate() bool {
	for day, slots := range m {
		if !isMenuDay(day) {
			return false
		}
		for slot := range slots {
			if !isMenuSlot(slot) {
				return false
			}
		}
	}
	return true
}

// Complete returns a copy with every day and slot present.
// Empty names are stored as nil.
func (m WeeklyMenu) Complete() WeeklyMenu {
	out := make(WeeklyMenu, len(constants.MenuDays))
	for _, day := range constants.MenuDays {
		slots := make(map[string]*string, len(constants.MenuSlots))
		for _, slot := range constants.MenuSlots {
			var name *string
			if v := m[day][slot]; v != nil && *v != "" {
				n := *v
				name = &n
			}
			slots[slot] = name
		}
		out[day] = slots
	}
	return out
}

// RecipeNames returns the distinct recipe names referenced by the menu
func (m WeeklyMenu) RecipeNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, day := range constants.MenuDays {
		for _, slot := range constants.MenuSlots {
			if v := m[day][slot]; v != nil && *v != "" && !seen[*v] {
				seen[*v] = true
				names = append(names, *v)
			}
		}
	}
	return names
}

func isMenuDay(day string) bool {
	for _, d := range constants.MenuDays {
		if d == day {
			return true
		}
	}
	return false
}

func isMenuSlot(slot string) bool {
	for _, s := range constants.MenuSlots {
		if s == slot {
			return true
		}
	}
	return false
}
