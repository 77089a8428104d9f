package studio

import (
	"errors"

	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/apperror"
)

// toAppError maps domain errors raised while editing a draft.
func toAppError(err error, resource, identifier string) error {
	var appErr *apperror.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, studio.ErrSessionNotFound):
		return apperror.NewNotFound("studio session", identifier)
	case errors.Is(err, portfolio.ErrUnknownSection):
		return apperror.NewNotFound("section", resource)
	case errors.Is(err, collection.ErrUnknownField),
		errors.Is(err, collection.ErrInvalidValue),
		errors.Is(err, portfolio.ErrInvalidSlug),
		errors.Is(err, portfolio.ErrSlugRequired),
		errors.Is(err, portfolio.ErrInvalidTheme):
		return apperror.NewInvalidInput(err.Error(), err)
	default:
		return apperror.NewInternal("studio operation failed", err)
	}
}

// fieldError reports a rejected field write against the field that was
// written. Other errors go through toAppError.
func fieldError(err error, field, resource, identifier string) error {
	if errors.Is(err, collection.ErrUnknownField) || errors.Is(err, collection.ErrInvalidValue) {
		return apperror.NewInvalidField(field, err.Error(), err)
	}
	return toAppError(err, resource, identifier)
}

func entryNotFound(section portfolio.SectionName, id string) error {
	return apperror.NewNotFound(string(section)+" entry", id)
}
