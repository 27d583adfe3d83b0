package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

func lookupFrom(users ...domain.User) domain.UserLookup {
	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return func(_ context.Context, username string) (domain.User, error) {
		u, ok := byName[username]
		if !ok {
			return domain.User{}, domain.ErrNotFound
		}
		return u, nil
	}
}

func TestExtractMentions(t *testing.T) {
	alice := domain.User{ID: 1, Username: "alice"}
	bob := domain.User{ID: 2, Username: "bob999"}

	got, err := domain.ExtractMentions(context.Background(),
		"hey @alice and @bob999, see @nouser", lookupFrom(alice, bob))

	require.NoError(t, err)
	assert.Equal(t, []domain.User{alice, bob}, got)
}

func TestExtractMentionsCollapsesDuplicates(t *testing.T) {
	alice := domain.User{ID: 1, Username: "alice"}
	bob := domain.User{ID: 2, Username: "bob"}
	calls := 0
	lookup := lookupFrom(alice, bob)
	counting := func(ctx context.Context, name string) (domain.User, error) {
		calls++
		return lookup(ctx, name)
	}

	got, err := domain.ExtractMentions(context.Background(), "@bob @alice @bob! @alice_", counting)

	require.NoError(t, err)
	assert.Equal(t, []domain.User{bob, alice}, got)
	assert.Equal(t, 3, calls)
}

func TestExtractMentionsNoMatches(t *testing.T) {
	got, err := domain.ExtractMentions(context.Background(), "mail me at @ or @@", lookupFrom())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractMentionsLookupFailure(t *testing.T) {
	boom := errors.New("db down")
	_, err := domain.ExtractMentions(context.Background(), "@alice", func(context.Context, string) (domain.User, error) {
		return domain.User{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
