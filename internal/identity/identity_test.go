package identity

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentUserFallsBack(t *testing.T) {
	orig := lookup
	t.Cleanup(func() { lookup = orig })

	lookup = func() (*user.User, error) { return nil, errors.New("no passwd entry") }
	assert.Equal(t, Fallback, CurrentUser())

	lookup = func() (*user.User, error) { return &user.User{Username: ""}, nil }
	assert.Equal(t, Fallback, CurrentUser())

	lookup = func() (*user.User, error) { return &user.User{Username: "alice"}, nil }
	assert.Equal(t, "alice", CurrentUser())
}
