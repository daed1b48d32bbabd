package service

import "errors"

var (
	// Deadline lifecycle errors
	ErrDeadlineNotFound   = errors.New("deadline not found")
	ErrArchiveNotFound    = errors.New("archive record not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrArchiveConsistency = errors.New("archive and delete did not both complete")

	// Customer-related errors
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerNotActive = errors.New("customer is not active")
	ErrCustomerDeleted   = errors.New("customer is soft-deleted")

	// Collaborator errors
	ErrServiceUnavailable = errors.New("external service unavailable")

	// Folder lifecycle errors
	ErrFolderNotFound = errors.New("customer media folder not found")
)
