package domain

import "time"

// Directory is the ordered list of registered users. It is the single
// source of truth for roles.
type Directory []User

// IndexOf returns the position of the entry with the given username, or -1.
func (d Directory) IndexOf(username string) int {
	for i := range d {
		if d[i].Username == username {
			return i
		}
	}
	return -1
}

// FindByUsername returns a copy of the matching entry, or nil.
func (d Directory) FindByUsername(username string) *User {
	i := d.IndexOf(username)
	if i < 0 {
		return nil
	}
	u := d[i]
	return &u
}

// FindForLogin returns the index of the first entry whose username or email
// equals handle and whose credential satisfies match.
func (d Directory) FindForLogin(handle string, match func(stored string) bool) int {
	for i := range d {
		if d[i].Username != handle && d[i].Email != handle {
			continue
		}
		if match(d[i].Password) {
			return i
		}
	}
	return -1
}

func (d Directory) UsernameTaken(username string) bool {
	return d.IndexOf(username) >= 0
}

func (d Directory) EmailTaken(email string) bool {
	for i := range d {
		if d[i].Email == email {
			return true
		}
	}
	return false
}

// NextID returns a time-based identifier that no entry uses yet.
func (d Directory) NextID(now time.Time) int64 {
	id := now.UnixMilli()
	for i := range d {
		if d[i].ID >= id {
			id = d[i].ID + 1
		}
	}
	return id
}
