// Package service contains the business rules of the person service: existence checks before
// reads, updates and deletes, and the mapping between stored records and the JSON shapes.
package service

import (
	"context"
	"fmt"

	"gitlab.com/dirk.krummacker/person-service/internal/apperror"
	"gitlab.com/dirk.krummacker/person-service/internal/model"
	api "gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// Repository is the persistence the service depends on.
type Repository interface {
	ListAll(ctx context.Context) ([]model.Person, error)
	GetByID(ctx context.Context, id int64) (model.Person, bool, error)
	Insert(ctx context.Context, person model.Person) (model.Person, error)
	Update(ctx context.Context, person model.Person) (model.Person, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PersonService implements the person operations on top of a Repository.
type PersonService struct {
	repo Repository
}

// NewPersonService returns a service using repo.
func NewPersonService(repo Repository) *PersonService {
	return &PersonService{repo: repo}
}

// personNotFound is the error for every operation that targets a missing id.
func personNotFound(id int64) error {
	return apperror.NotFound("Person with ID %d not found", id)
}

// ListAll returns all persons ordered by id.
func (s *PersonService) ListAll(ctx context.Context) ([]api.Person, error) {
	persons, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]api.Person, 0, len(persons))
	for _, person := range persons {
		result = append(result, toResponse(person))
	}
	return result, nil
}

// GetByID returns the person with the given id or a NotFound error.
func (s *PersonService) GetByID(ctx context.Context, id int64) (api.Person, error) {
	person, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return api.Person{}, err
	}
	if !found {
		return api.Person{}, personNotFound(id)
	}
	return toResponse(person), nil
}

// Create stores a new person. Creation never conflicts with existing persons.
func (s *PersonService) Create(ctx context.Context, input api.CreatePerson) (api.Person, error) {
	person := model.Person{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Age:       input.Age,
	}
	created, err := s.repo.Insert(ctx, person)
	if err != nil {
		return api.Person{}, err
	}
	return toResponse(created), nil
}

// Update overwrites first name, last name and age of an existing person. Id and creation time are
// kept. A missing person yields a NotFound error, also when it disappears before the update.
func (s *PersonService) Update(ctx context.Context, id int64, input api.UpdatePerson) (api.Person, error) {
	person, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return api.Person{}, err
	}
	if !found {
		return api.Person{}, personNotFound(id)
	}
	person.FirstName = input.FirstName
	person.LastName = input.LastName
	person.Age = input.Age
	updated, found, err := s.repo.Update(ctx, person)
	if err != nil {
		return api.Person{}, err
	}
	if !found {
		return api.Person{}, fmt.Errorf("update person: %w", personNotFound(id))
	}
	return toResponse(updated), nil
}

// Delete removes an existing person. A missing person yields a NotFound error, also when it
// disappears between the existence check and the delete.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return personNotFound(id)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("delete person: %w", personNotFound(id))
	}
	return nil
}

func toResponse(person model.Person) api.Person {
	return api.Person{
		PersonId:  person.Id,
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Age:       person.Age,
		CreatedAt: person.CreatedAt,
		UpdatedAt: person.UpdatedAt,
	}
}
