package models

import "fmt"

// User is an artist or listener profile.
type User struct {
	ListItem
}

func (u *User) Kind() Kind      { return KindUser }
func (u *User) Base() *ListItem { return &u.ListItem }

// Description combines display name, follower count and bio.
func (u *User) Description(followersLabel string) string {
	name := u.Label2
	if name == "" {
		name = u.Label
	}
	return fmt.Sprintf("%s\n%s %s\n\n%s",
		name, u.InfoString("followers"), followersLabel, u.InfoString("description"))
}
