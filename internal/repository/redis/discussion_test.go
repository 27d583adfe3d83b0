package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/cache"
)

func sampleDiscussion() domain.Discussion {
	return domain.Discussion{
		ID:       1,
		Author:   domain.User{ID: 2},
		Title:    "title",
		Content:  "content",
		Category: domain.CategoryGeneral,
		Replies: []domain.ReplyNode{
			{ID: 10, Author: domain.User{ID: 3}, Content: "reply", Replies: []domain.ReplyNode{
				{ID: 11, Author: domain.User{ID: 4}, Content: "nested", Replies: []domain.ReplyNode{}},
			}},
		},
	}
}

func TestGetDiscussion(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	c := NewDiscussionCache(client)

	mock.ExpectGet("discussion:1").RedisNil()
	_, _, err := c.GetDiscussion(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	fresh, err := json.Marshal(cache.NewDataWithLogicalExpire(sampleDiscussion(), time.Minute))
	require.NoError(t, err)
	mock.ExpectGet("discussion:1").SetVal(string(fresh))
	d, expired, err := c.GetDiscussion(ctx, 1)
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, "title", d.Title)
	require.Len(t, d.Replies, 1)
	assert.EqualValues(t, 11, d.Replies[0].Replies[0].ID)

	stale, err := json.Marshal(cache.NewDataWithLogicalExpire(sampleDiscussion(), -time.Minute))
	require.NoError(t, err)
	mock.ExpectGet("discussion:1").SetVal(string(stale))
	_, expired, err = c.GetDiscussion(ctx, 1)
	require.NoError(t, err)
	assert.True(t, expired)

	mock.ExpectGet("discussion:1").SetErr(errors.New("connection refused"))
	_, _, err = c.GetDiscussion(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDiscussion(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	c := NewDiscussionCache(client)
	d := sampleDiscussion()

	mock.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) < 3 || actual[1] != "discussion:1" {
			return errors.New("unexpected key")
		}
		raw, ok := actual[2].([]byte)
		if !ok {
			return errors.New("value is not json bytes")
		}
		var entry cache.DataWithLogicalExpire[domain.Discussion]
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		if entry.Data.ID != d.ID || entry.IsLogicalExpired() {
			return errors.New("unexpected envelope")
		}
		return nil
	}).ExpectSet("discussion:1", nil, 30*time.Minute).SetVal("OK")

	require.NoError(t, c.SetDiscussion(ctx, &d, 5*time.Minute))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDiscussion(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewDiscussionCache(client)

	mock.ExpectDel("discussion:7").SetVal(1)
	require.NoError(t, c.DeleteDiscussion(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
