package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	m, err := NewMember(" Kim ", " Kim@Email.com ", "$2a$hash", RoleUser)
	require.NoError(t, err)
	require.Equal(t, "Kim", m.Name)
	require.Equal(t, "kim@email.com", m.Email)
	require.False(t, m.IsAdmin())

	_, err = NewMember("", "not-an-email", "", Role("ROOT"))
	require.Error(t, err)
}

func TestNewTheme(t *testing.T) {
	th, err := NewTheme("Escape Room", "a locked room", "https://example.com/a.png")
	require.NoError(t, err)
	require.Equal(t, "Escape Room", th.Name)

	_, err = NewTheme("  ", "", "")
	require.Error(t, err)

	_, err = NewTheme("Escape Room", "", "ftp://example.com/a.png")
	require.Error(t, err)
}
