package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Thermo/internal/calc/cycle"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

// Run is a saved calculation: the parameters a user submitted and the report
// they produced.
type Run struct {
	ID        uuid.UUID    `json:"id"`
	UserID    int          `json:"user_id"`
	Cycle     string       `json:"cycle"`
	Params    cycle.Params `json:"params"`
	Report    cycle.Report `json:"report"`
	CreatedAt time.Time    `json:"created_at"`
}

type RunRepository interface {
	SaveRun(ctx context.Context, run Run) (Run, error)
	ListRuns(ctx context.Context, userID, limit int) ([]Run, error)
	GetRun(ctx context.Context, userID int, id uuid.UUID) (Run, error)
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Open connects to Postgres with the pool settings the service runs with. A
// DSN without sslmode gets sslmode=require.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(dsn))
	if err != nil {
		return nil, fmt.Errorf("configure db: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func withSSLMode(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=require"
		}
		return dsn + "?sslmode=require"
	}
	return dsn + " sslmode=require"
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return 0, fmt.Errorf("user %q: %w", login, ErrDuplicate)
	}
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	params, err := json.Marshal(run.Params)
	if err != nil {
		return Run{}, fmt.Errorf("encode params: %w", err)
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return Run{}, fmt.Errorf("encode report: %w", err)
	}
	query := `INSERT INTO runs (id, user_id, cycle, params, report)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query, run.ID, run.UserID, run.Cycle, string(params), string(report)).Scan(&run.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (r *PostgresUserRepository) ListRuns(ctx context.Context, userID, limit int) ([]Run, error) {
	query := `SELECT id, user_id, cycle, params, report, created_at FROM runs
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresUserRepository) GetRun(ctx context.Context, userID int, id uuid.UUID) (Run, error) {
	query := `SELECT id, user_id, cycle, params, report, created_at FROM runs
		WHERE id=$1 AND user_id=$2`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var params, report []byte
	if err := s.Scan(&run.ID, &run.UserID, &run.Cycle, &params, &report, &run.CreatedAt); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal(params, &run.Params); err != nil {
		return Run{}, fmt.Errorf("decode params: %w", err)
	}
	if err := json.Unmarshal(report, &run.Report); err != nil {
		return Run{}, fmt.Errorf("decode report: %w", err)
	}
	return run, nil
}
