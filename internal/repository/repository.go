// Package repository translates the person operations into SQL statements against the persons
// table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/person-service/internal/model"
)

const personColumns = "id, first_name, last_name, age, created_at, updated_at"

// PersonRepository reads and writes person records. All statements are prepared once when the
// repository is created.
type PersonRepository struct {
	now func() time.Time

	// selectAll is a prepared statement for selecting all persons ordered by id.
	selectAll *sqlx.Stmt
	// selectWhereId is a prepared statement for selecting the person with a given id.
	selectWhereId *sqlx.Stmt
	// existsWhereId is a prepared statement for checking whether a person exists.
	existsWhereId *sqlx.Stmt
	// insert is a prepared statement for creating a person.
	insert *sqlx.NamedStmt
	// update is a prepared statement for overwriting all mutable fields of a person.
	update *sqlx.NamedStmt
	// deleteWhereId is a prepared statement for deleting the person with a given id.
	deleteWhereId *sqlx.Stmt
}

// NewPersonRepository prepares all statements on the given database. The database can be a real
// database for production use or a mock database within unit tests.
func NewPersonRepository(db *sqlx.DB) (*PersonRepository, error) {
	r := &PersonRepository{now: now}
	var err error
	if r.selectAll, err = db.Preparex(`
		SELECT ` + personColumns + ` FROM persons ORDER BY id ASC
	`); err != nil {
		return nil, fmt.Errorf("prepare select all: %w", err)
	}
	if r.selectWhereId, err = db.Preparex(`
		SELECT ` + personColumns + ` FROM persons WHERE id = ?
	`); err != nil {
		r.Close()
		return nil, fmt.Errorf("prepare select by id: %w", err)
	}
	if r.existsWhereId, err = db.Preparex(`
		SELECT EXISTS(SELECT 1 FROM persons WHERE id = ?)
	`); err != nil {
		r.Close()
		return nil, fmt.Errorf("prepare exists: %w", err)
	}
	if r.insert, err = db.PrepareNamed(`
		INSERT INTO persons (first_name, last_name, age, created_at)
		VALUES (:first_name, :last_name, :age, :created_at)
	`); err != nil {
		r.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	if r.update, err = db.PrepareNamed(`
		UPDATE persons
		SET first_name = :first_name, last_name = :last_name, age = :age, updated_at = :updated_at
		WHERE id = :id
	`); err != nil {
		r.Close()
		return nil, fmt.Errorf("prepare update: %w", err)
	}
	if r.deleteWhereId, err = db.Preparex(`
		DELETE FROM persons WHERE id = ?
	`); err != nil {
		r.Close()
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	return r, nil
}

// now returns the current time with the precision of a DATETIME(6) column, so that a returned
// record equals the stored one.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ListAll returns all persons ordered by ascending id. The result is never nil.
func (r *PersonRepository) ListAll(ctx context.Context) ([]model.Person, error) {
	persons := []model.Person{}
	if err := r.selectAll.SelectContext(ctx, &persons); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

// GetByID returns the person with the given id. The boolean is false if there is no such person.
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (model.Person, bool, error) {
	var person model.Person
	err := r.selectWhereId.GetContext(ctx, &person, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Person{}, false, nil
	}
	if err != nil {
		return model.Person{}, false, fmt.Errorf("get person %d: %w", id, err)
	}
	return person, true, nil
}

// Insert stores a new person and returns it with its assigned id and creation time. Id and
// UpdatedAt of the argument are ignored.
func (r *PersonRepository) Insert(ctx context.Context, person model.Person) (model.Person, error) {
	person.CreatedAt = r.now()
	person.UpdatedAt = nil
	result, err := r.insert.ExecContext(ctx, &person)
	if err != nil {
		return model.Person{}, fmt.Errorf("insert person: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Person{}, fmt.Errorf("insert person: %w", err)
	}
	person.Id = id
	return person, nil
}

// Update overwrites first name, last name and age of the person with the record's id and sets
// its update time. The boolean is false if there was no such person.
func (r *PersonRepository) Update(ctx context.Context, person model.Person) (model.Person, bool, error) {
	updatedAt := r.now()
	person.UpdatedAt = &updatedAt
	result, err := r.update.ExecContext(ctx, &person)
	if err != nil {
		return model.Person{}, false, fmt.Errorf("update person %d: %w", person.Id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Person{}, false, fmt.Errorf("update person %d: %w", person.Id, err)
	}
	if rowsAffected == 0 {
		return model.Person{}, false, nil
	}
	return person, true, nil
}

// Delete removes the person with the given id. The boolean is false if there was no such person.
func (r *PersonRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete person %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete person %d: %w", id, err)
	}
	return rowsAffected > 0, nil
}

// Exists reports whether a person with the given id is stored.
func (r *PersonRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.existsWhereId.GetContext(ctx, &exists, id); err != nil {
		return false, fmt.Errorf("check person %d: %w", id, err)
	}
	return exists, nil
}

// Close releases the prepared statements. The database itself stays open.
func (r *PersonRepository) Close() error {
	var errs []error
	for _, stmt := range []*sqlx.Stmt{r.selectAll, r.selectWhereId, r.existsWhereId, r.deleteWhereId} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	for _, stmt := range []*sqlx.NamedStmt{r.insert, r.update} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	return errors.Join(errs...)
}
