package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema DDL idempotente de la base PostgreSQL.
//
//go:embed schema.sql
var Schema string

// EnsureSchema crea las tablas e índices que falten.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
