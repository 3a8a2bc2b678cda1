package services

import "errors"

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrElectiveExists   = errors.New("elective already saved")
	ErrElectiveNotFound = errors.New("elective not found")
	ErrDocumentTooLarge = errors.New("dataset document too large")
)
