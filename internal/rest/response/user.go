package response

import "github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

func NewUserFromDomain(u domain.User) User {
	return User{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

func NewUsersFromDomain(users []domain.User) []User {
	res := make([]User, len(users))
	for i := range users {
		res[i] = NewUserFromDomain(users[i])
	}
	return res
}
