package implementation

import (
	"errors"

	"academy-be/internal/repository/contract"

	"gorm.io/gorm"
)

// translateWriteError maps GORM's translated driver errors onto contract sentinels.
// Requires gorm.Config.TranslateError.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicate
	}
	return err
}
