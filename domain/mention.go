package domain

import (
	"context"
	"errors"
	"regexp"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// UserLookup resolves a username to a user, returning ErrNotFound when no
// such user exists.
type UserLookup func(ctx context.Context, username string) (User, error)

// ExtractMentions resolves every distinct @username in content, in order of
// first occurrence. Unknown usernames are skipped.
func ExtractMentions(ctx context.Context, content string, lookup UserLookup) ([]User, error) {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	res := make([]User, 0, len(matches))
	seenName := make(map[string]bool, len(matches))
	seenID := make(map[int64]bool, len(matches))

	for _, m := range matches {
		name := m[1]
		if seenName[name] {
			continue
		}
		seenName[name] = true

		u, err := lookup(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if seenID[u.ID] {
			continue
		}
		seenID[u.ID] = true
		res = append(res, u)
	}
	return res, nil
}
