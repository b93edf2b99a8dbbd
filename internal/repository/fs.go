package repository

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystemRepository defines the interface for filesystem operations.

type FileSystemRepository interface {
	afero.Fs
}

// HasGitDir reports whether path has a .git directory directly beneath it.
// A .git file (worktree or submodule gitlink) does not count.
func HasGitDir(fs FileSystemRepository, path string) (bool, error) {
	return afero.DirExists(fs, filepath.Join(path, ".git"))
}
