package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/common"
)

var knownErrors = []error{
	common.ErrorDuplicateKey,
	common.ErrorAuthFailure,
	common.ErrorNotFound,
	common.ErrorDecode,
	common.ErrorStorage,
	common.ErrorInference,
	common.ErrorForeignKeyViolation,
	common.ErrorValidation,
	common.ErrorInvalidToken,
	common.ErrorInternal,
}

func isKnown(err error) bool {
	for _, k := range knownErrors {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// guard is deferred by every public method. It turns panics and
// unclassified errors into common.ErrorInternal and logs them.
func (c *Controller) guard(ctx context.Context, op string, err *error) {
	if r := recover(); r != nil {
		c.log.Error(ctx, "panic", "op", op, "panic", fmt.Sprint(r))
		*err = common.ErrorInternal
		return
	}
	if *err == nil || isKnown(*err) {
		return
	}
	c.log.Error(ctx, "unexpected error", "op", op, "error", *err)
	*err = common.ErrorInternal
}

// Message returns a user-facing sentence for an error returned by the
// controller.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrorDuplicateKey):
		return "Username or email already exists."
	case errors.Is(err, common.ErrorAuthFailure):
		return "Invalid username or password."
	case errors.Is(err, common.ErrorNotFound):
		return "The requested record was not found."
	case errors.Is(err, common.ErrorDecode):
		return "The file is not a readable image. Please upload a JPG or PNG image."
	case errors.Is(err, common.ErrorStorage):
		return "The image could not be stored. Please try again later."
	case errors.Is(err, common.ErrorInference):
		return "The analysis could not be completed. Please try again."
	case errors.Is(err, common.ErrorForeignKeyViolation):
		return "Your account could not be found. Please log in again."
	case errors.Is(err, common.ErrorInvalidToken):
		return "Your session is no longer valid. Please log in again."
	case errors.Is(err, common.ErrorValidation):
		detail := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
		if detail == common.ErrorValidation.Error() {
			return "Please check the values you entered."
		}
		return "Please check the values you entered: " + detail + "."
	default:
		return "Something went wrong. Please try again."
	}
}
