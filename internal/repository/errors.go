package repository

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrSettingNotFound = errors.New("setting not found")
)
