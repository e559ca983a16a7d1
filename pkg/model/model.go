// Package model contains the JSON shapes exchanged with clients of the person service.
package model

import "time"

// Person is the data structure returned for a stored person.
type Person struct {
	PersonId  int64      `json:"personId"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Age       int        `json:"age"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// CreatePerson is the request body for creating a person.
type CreatePerson struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=50"`
	LastName  string `json:"lastName"  binding:"required,min=2,max=50"`
	Age       int    `json:"age"       binding:"required,min=1,max=100"`
}

// UpdatePerson is the request body for replacing the user-settable fields of a person. All
// three fields are overwritten; partial updates are not supported.
type UpdatePerson struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=50"`
	LastName  string `json:"lastName"  binding:"required,min=2,max=50"`
	Age       int    `json:"age"       binding:"required,min=1,max=100"`
}
