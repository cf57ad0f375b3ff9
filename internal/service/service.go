package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

// resetCodeTTL is how long a password reset code stays redeemable.
const resetCodeTTL = time.Hour

func validateStruct(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, err.Error())
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// gateAccountStatus blocks login for accounts that are not in a usable state.
// The gate runs before the password check so a blocked account never leaks
// whether the password was right.
func gateAccountStatus(status models.AccountStatus) error {
	switch status {
	case models.StatusActive, models.StatusApproved:
		return nil
	case models.StatusPending:
		return apperrors.Clone(apperrors.ErrAccountNotActive, "account is still under review")
	case models.StatusRejected:
		return apperrors.Clone(apperrors.ErrAccountNotActive, "account has been rejected")
	case models.StatusSuspended:
		return apperrors.Clone(apperrors.ErrAccountNotActive, "account is suspended")
	default:
		return apperrors.ErrAccountNotActive
	}
}
