package model

import "time"

// Person is a row of the persons table. Id and CreatedAt are assigned by the repository on
// insert and never change afterwards. UpdatedAt stays nil until the first update.
type Person struct {
	Id        int64      `db:"id"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Age       int        `db:"age"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}
