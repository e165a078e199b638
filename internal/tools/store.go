package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/escape-plan/internal/db"
)

// Store manages persistence of the tools catalog.
type Store struct {
	db *db.DB
}

// NewStore creates a new tools store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts or replaces a tool.
func (s *Store) Upsert(ctx context.Context, t Tool) error {
	if t.ID == "" {
		return fmt.Errorf("tool id is required")
	}
	if t.Type == "" {
		t.Type = "planner"
	}
	cfg := t.Config
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding tool config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tools (id, name, description, type, premium, config)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   type = excluded.type,
		   premium = excluded.premium,
		   config = excluded.config`,
		t.ID, t.Name, t.Description, t.Type, t.Premium, string(raw),
	)
	if err != nil {
		return fmt.Errorf("upserting tool %s: %w", t.ID, err)
	}
	return nil
}

// List returns all tools ordered by name.
func (s *Store) List(ctx context.Context) ([]Tool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, type, premium, config FROM tools ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}
	defer rows.Close()

	var out []Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// GetByID retrieves a tool by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Tool, error) {
	t, err := scanTool(s.db.QueryRowContext(ctx,
		`SELECT id, name, description, type, premium, config FROM tools WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tool: %w", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTool(sc scanner) (*Tool, error) {
	var t Tool
	var raw string
	if err := sc.Scan(&t.ID, &t.Name, &t.Description, &t.Type, &t.Premium, &raw); err != nil {
		return nil, err
	}
	if raw != "" && raw != "{}" {
		if err := json.Unmarshal([]byte(raw), &t.Config); err != nil {
			return nil, fmt.Errorf("decoding config of tool %s: %w", t.ID, err)
		}
	}
	return &t, nil
}
