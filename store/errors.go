package store

import (
	"database/sql"

	"github.com/goliatone/go-errors"
)

func notFound(msg string) *errors.Error {
	return errors.New(msg, errors.CategoryNotFound).WithCode(errors.CodeNotFound)
}

func conflict(msg string) *errors.Error {
	return errors.New(msg, errors.CategoryConflict).WithCode(errors.CodeConflict)
}

func internal(err error, msg string) error {
	return errors.Wrap(err, errors.CategoryInternal, msg)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
