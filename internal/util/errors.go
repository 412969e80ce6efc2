package util

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")

	ErrEvaluationClosed    = errors.New("evaluation is no longer available")
	ErrNoAttemptsRemaining = errors.New("no attempts remaining, request reopen")
	ErrMalformedAnswer     = errors.New("answer references a question or option outside this evaluation")

	ErrJustificationRequired = errors.New("justification is required")
	ErrAttemptsNotExhausted  = errors.New("attempt budget is not exhausted")
	ErrReopenPending         = errors.New("a reopen request is already pending for this evaluation")
	ErrReopenResolved        = errors.New("reopen request has already been resolved")
	ErrReopenNotFound        = errors.New("reopen request not found")

	ErrCertificateNotFound = errors.New("certificate not found")

	ErrInvalidVideoExt = errors.New("unsupported video format")
)
