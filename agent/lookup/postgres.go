package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type roleRow struct {
	bun.BaseModel `bun:"table:job_roles,alias:jr"`

	Role   string   `bun:"role,pk"`
	Skills []string `bun:"skills,array"`
}

type postingRow struct {
	bun.BaseModel `bun:"table:job_postings,alias:jp"`

	ID       int64    `bun:"id,pk,autoincrement"`
	Title    string   `bun:"title"`
	Company  string   `bun:"company"`
	Location string   `bun:"location"`
	Skills   []string `bun:"skills,array"`
}

type courseRow struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Skill    string `bun:"skill"`
	Title    string `bun:"title"`
	Platform string `bun:"platform"`
	Link     string `bun:"link"`
}

// PostgresService reads the lookup tables from PostgreSQL. Rows are fetched
// per call; ordering follows the primary key so listing order stays stable
// across turns.
type PostgresService struct {
	db *bun.DB
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &PostgresService{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (s *PostgresService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresService) Close() error {
	return s.db.Close()
}

func (s *PostgresService) RoleSkills(ctx context.Context, role string) ([]string, bool, error) {
	var row roleRow
	err := s.db.NewSelect().
		Model(&row).
		Where("lower(jr.role) = ?", normalizeKey(role)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select role skills: %w", err)
	}
	return row.Skills, true, nil
}

func (s *PostgresService) Jobs(ctx context.Context) ([]Posting, error) {
	var rows []postingRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select job postings: %w", err)
	}

	out := make([]Posting, 0, len(rows))
	for _, r := range rows {
		out = append(out, Posting{
			Title:    r.Title,
			Company:  r.Company,
			Location: r.Location,
			Skills:   r.Skills,
		})
	}
	return out, nil
}

func (s *PostgresService) Courses(ctx context.Context, skill string) ([]Course, error) {
	var rows []courseRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("lower(c.skill) = ?", normalizeKey(skill)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select courses: %w", err)
	}

	out := make([]Course, 0, len(rows))
	for _, r := range rows {
		out = append(out, Course{
			Title:    r.Title,
			Platform: r.Platform,
			Link:     r.Link,
		})
	}
	return out, nil
}
