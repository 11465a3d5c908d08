package service

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
)

// storageError converts a storage failure into a domain error. Domain errors
// pass through untouched.
func storageError(err error, missing apperrors.Code, action string) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(missing, action+": not found", err)
	}
	return apperrors.Wrap(apperrors.CodeStorageFailure, fmt.Sprintf("%s: %v", action, err), err)
}

// listError is storageError plus filter parse failures.
func listError(err error, filter, action string) error {
	if errors.Is(err, storage.ErrInvalidFilter) {
		return apperrors.WrapWithMetadata(apperrors.CodeInvalidFilter,
			fmt.Sprintf("%s: %v", action, err), map[string]string{"filter": filter}, err)
	}
	return storageError(err, apperrors.CodeNotFound, action)
}
