package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/totegamma/apub-playground"
)

// translate maps gorm lookup failures onto the error kinds of the store package.
func translate(err error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apub.NotFoundError{Resource: key}
	}
	return err
}
