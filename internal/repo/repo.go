package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrConflict is returned when a version-guarded update touches zero rows,
// meaning the record changed since the caller last read it.
var ErrConflict = errors.New("record already updated")

var ErrUserAlreadyExist = errors.New("user already exist")

type GormRepo struct {
	DB *gorm.DB
}
