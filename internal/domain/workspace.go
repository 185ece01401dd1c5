package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidPath = errors.New("workspace: invalid path")

// WorkspacePath is a logical path rooted at "/" inside the remote workspace.
// Values are only constructed through NormalizeWorkspacePath.
type WorkspacePath string

func (p WorkspacePath) String() string { return string(p) }

// NormalizeWorkspacePath collapses redundant separators and resolves "." and
// ".." segments without touching any filesystem. It fails on empty input and
// on any path that would resolve above the workspace root.
func NormalizeWorkspacePath(raw string) (WorkspacePath, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidPath
	}

	var stack []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
			// redundant separator or self reference
		case "..":
			if len(stack) == 0 {
				return "", ErrInvalidPath
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}

	return WorkspacePath("/" + strings.Join(stack, "/")), nil
}

// WorkspaceFile is a metadata entry from the workspace file service.
type WorkspaceFile struct {
	Path       string     `json:"path"`
	Size       int64      `json:"size"`
	IsDir      bool       `json:"is_dir"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}
