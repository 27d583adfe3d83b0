package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

var userColumns = []string{"id", "name", "username", "profile_picture", "created_at", "updated_at"}

func TestUserGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `user` WHERE username = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "alice", "", now, now))
	mock.ExpectQuery("SELECT \\* FROM `user` WHERE username = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.ID)
	assert.Equal(t, "alice", u.Username)

	_, err = repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	users, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	mock.ExpectQuery("SELECT \\* FROM `user` WHERE id IN \\(\\?,\\?\\)").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Alice", "alice", "", now, now).
			AddRow(2, "Bob", "bob", "", now, now))

	users, err = repo.GetByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSearchByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `user` WHERE LOWER\\(username\\) LIKE \\? ORDER BY username LIMIT").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "alice", "", now, now))

	users, err := repo.SearchByUsername(context.Background(), "AL", 5)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%bob%", likePattern("BoB"))
	assert.Equal(t, `%a\_b\%%`, likePattern("a_b%"))
	assert.Equal(t, `%c\\d%`, likePattern(`c\d`))
}
