// Package sqlite implements the assignment ledger on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
)

var columns = map[string]string{
	assignment.ParamPlanID:    "plan_id",
	assignment.ParamProfileID: "profile_id",
	assignment.ParamVehicle:   "vehicle",
}

// Service is a SQLite backed assignment ledger
type Service struct {
	db *sql.DB
}

// Open opens the database file at path and applies migrations.
func Open(path string) (*Service, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err = Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Service{db: db}, nil
}

// New wraps an already migrated database
func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// Close closes the database
func (s *Service) Close() error {
	return s.db.Close()
}

// Save inserts or replaces an assignment
func (s *Service) Save(ctx context.Context, a *model.Assignment) error {
	if a == nil {
		return dao.ErrNilEntity
	}
	if a.ID == "" {
		return dao.ErrInvalidID
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO assignments
		(id, plan_id, profile_id, vehicle, request_id, drained, allocated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PlanID, a.ProfileID, a.Vehicle, a.RequestID, a.Drained, a.AllocatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save assignment %s: %w", a.ID, err)
	}
	return nil
}

// Load returns an assignment by id
func (s *Service) Load(ctx context.Context, id string) (*model.Assignment, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, plan_id, profile_id, vehicle, request_id, drained, allocated_at
		FROM assignments WHERE id = ?`, id)
	ret, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assignment %s: %w", id, dao.ErrNotFound)
	}
	return ret, err
}

// Delete removes an assignment
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("assignment %s: %w", id, dao.ErrNotFound)
	}
	return nil
}

// List returns assignments matching parameters, oldest first
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Assignment, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT id, plan_id, profile_id, vehicle, request_id, drained, allocated_at FROM assignments`)
	var args []interface{}
	var where []string
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		column, ok := columns[parameter.Name]
		if !ok {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			where = append(where, column+" = ?")
			args = append(args, actual)
		case []string:
			if len(actual) == 0 {
				return nil, nil
			}
			where = append(where, column+" IN (?"+strings.Repeat(", ?", len(actual)-1)+")")
			for _, v := range actual {
				args = append(args, v)
			}
		}
	}
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}
	query.WriteString(" ORDER BY allocated_at, id")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()
	var ret []*model.Assignment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, a)
	}
	return ret, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (*model.Assignment, error) {
	ret := &model.Assignment{}
	var allocatedAt time.Time
	if err := row.Scan(&ret.ID, &ret.PlanID, &ret.ProfileID, &ret.Vehicle, &ret.RequestID, &ret.Drained, &allocatedAt); err != nil {
		return nil, err
	}
	ret.AllocatedAt = allocatedAt.UTC()
	return ret, nil
}

var _ assignment.DAO = (*Service)(nil)
