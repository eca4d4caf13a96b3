package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	vend "github.com/goliatone/go-vend"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// SessionValue is the Bun model for a persisted session key.
type SessionValue struct {
	bun.BaseModel `bun:"table:vend_session"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Store implements vend.Storage on a SQL table. Multi key writes run in a
// single transaction.
type Store struct {
	db *bun.DB
}

var _ vend.Storage = (*Store)(nil)

// New creates a store on db.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// OpenSQLite opens a sqlite database at dsn and returns a Bun handle.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("session store: open: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTable creates the session table when it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionValue)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("session store: create table: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	var rows []SessionValue
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("session store: load: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	return values, nil
}

func (s *Store) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]SessionValue, 0, len(values))
	for name, value := range values {
		rows = append(rows, SessionValue{Name: name, Value: value, UpdatedAt: now})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (name) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("session store: save: %w", err)
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*SessionValue)(nil)).
			Where("name IN (?)", bun.In(keys)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("session store: delete: %w", err)
		}
		return nil
	})
}
