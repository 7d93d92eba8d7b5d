package errors

// Named error kinds from spec.md §7, layered on top of the existing
// numeric banding (error_codes.go) rather than replacing it.

// ValidationError: input fails schema/range/enum checks (400/422).
func ValidationError(message string) *AppError {
	return New(ErrInvalidParam, message)
}

// AuthError: missing/invalid/expired token (401).
func AuthError(message string) *AppError {
	return New(ErrUnauthorized, message)
}

// PermissionError: user != owner on the target row (403).
func PermissionError(message string) *AppError {
	return New(ErrForbidden, message)
}

// NotFoundError: entity with the given id does not exist (404).
func NotFoundError(message string) *AppError {
	return New(ErrNotFound, message)
}

// ConflictError: state-machine precondition violated (400/409).
func ConflictError(message string) *AppError {
	return New(ErrConflict, message)
}

// UpstreamError: LLM or vector store failed. Analyzers MUST catch this
// themselves and fall back to a default result — it must never reach the
// HTTP boundary from an analyzer (spec.md §7 propagation policy).
func UpstreamError(message string) *AppError {
	return New(ErrExternalService, message)
}

// InternalError: unexpected exception (500).
func InternalError(message string) *AppError {
	return New(ErrInternalServer, message)
}

// IsNotFound reports whether err is a NotFoundError-kind AppError.
func IsNotFound(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == ErrNotFound
}

// IsConflict reports whether err is a ConflictError-kind AppError.
func IsConflict(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == ErrConflict
}

// IsPermission reports whether err is a PermissionError-kind AppError.
func IsPermission(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == ErrForbidden
}
