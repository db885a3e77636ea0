package repository

import (
	"errors"

	"github.com/proyectoiso/recetario/internal/utils"
)

// storeError passes AppErrors raised inside an update through and reports
// everything else as a failed save.
func storeError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.NewSaveError(err)
}
