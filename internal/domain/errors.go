package domain

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	ErrCategoryInUse    = errors.New("cannot delete category with existing SOPs")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrUnknownCategory  = errors.New("category does not exist")
	ErrNoFieldsToUpdate = errors.New("no fields provided to update")

	ErrInvalidImage = errors.New("file must be an image")
)
