package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// mapGetErr turns sql.ErrNoRows into the domain not-found error.
func mapGetErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}
