package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWorkspacePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "/notes/todo.md", "/notes/todo.md"},
		{"relative", "notes/todo.md", "/notes/todo.md"},
		{"dot and dotdot collapse", "/a/./b/../c", "/a/c"},
		{"double separators", "//a///b", "/a/b"},
		{"trailing slash", "/a/b/", "/a/b"},
		{"root", "/", "/"},
		{"dotdot within bounds", "/a/b/../../c", "/c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeWorkspacePath(tc.in)
			require.NoError(t, err)
			assert.Equal(t, WorkspacePath(tc.want), got)
		})
	}
}

func TestNormalizeWorkspacePathRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"escape above root", "../../etc/passwd"},
		{"escape after descent", "/a/../../b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeWorkspacePath(tc.in)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}
