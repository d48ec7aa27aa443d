package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid arguments")

	ErrNoFile             = errors.New("no file uploaded")
	ErrTooLarge           = errors.New("payload too large")
	ErrStorage            = errors.New("storage failure")
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)
