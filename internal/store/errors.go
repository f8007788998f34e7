package store

import "errors"

var (
	// ErrDatabaseExists is returned when creating a database whose name is taken.
	ErrDatabaseExists = errors.New("database already exists")

	// ErrDatabaseNotFound is returned when a named database does not exist.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrVectorNotFound is returned when a vector id does not exist in a database.
	ErrVectorNotFound = errors.New("vector not found")

	// ErrFolderNotFound is returned when a folder path is unknown to a database.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderExists is returned when renaming a folder onto an existing path.
	ErrFolderExists = errors.New("folder already exists")

	// ErrDimensionMismatch is returned when an embedding's length does not match
	// the database's configured dimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
