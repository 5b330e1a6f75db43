package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (memory, postgres) inside this directory.

import "errors"

// ErrNotFound is returned by every implementation when the requested row does not exist.
var ErrNotFound = errors.New("record not found")
