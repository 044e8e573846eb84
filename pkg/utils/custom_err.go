package utils

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfLink           = errors.New("self delegation is not allowed")
	ErrForbidden          = errors.New("forbidden")
	ErrPlanInactive       = errors.New("plan is inactive")
	ErrNoSubscription     = errors.New("no active subscription")
	ErrDependency         = errors.New("external provider call failed")
	ErrNotFound           = errors.New("record not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDatabaseError      = errors.New("database error")
)
