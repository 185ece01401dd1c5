package services

import "errors"

// Runtime integration errors
var (
	ErrServiceNotConfigured = errors.New("runtime: service not configured")
	ErrServiceUnavailable   = errors.New("runtime: service unavailable")
)

// Workspace errors
var (
	ErrFileExists   = errors.New("workspace: file already exists")
	ErrFileNotFound = errors.New("workspace: file not found")
)

// Board errors
var (
	ErrTaskNotFound      = errors.New("board: task not found")
	ErrTaskInvalidInput  = errors.New("board: invalid input")
	ErrTaskBlocked       = errors.New("board: task has unfinished dependencies")
	ErrDependencySelf    = errors.New("board: task cannot depend on itself")
	ErrDependencyMissing = errors.New("board: dependency target not found")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid token")
)
