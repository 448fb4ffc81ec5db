package user

import "time"

// User represents a registered supporter or campaign creator.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
