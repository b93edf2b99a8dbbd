package domain

import "errors"

var (
	// ErrNotRepository marks a path without a .git directory. It only ever causes a skip.
	ErrNotRepository = errors.New("not a Git repository")
	// ErrNoTags means the repository has no tags to bump from.
	ErrNoTags = errors.New("no tags found")
	// ErrMalformedTag means the latest tag does not follow v<major>.<minor>.<patch>.
	ErrMalformedTag = errors.New("malformed tag")
	// ErrTagExists means the computed tag is already present in the repository.
	ErrTagExists = errors.New("tag already exists")
	// ErrInvalidBumpMode means neither or an unknown bump mode was selected.
	ErrInvalidBumpMode = errors.New("invalid bump mode")
	// ErrNoRepositories means the batch was started without any repository paths.
	ErrNoRepositories = errors.New("at least one repository path is required")
)
