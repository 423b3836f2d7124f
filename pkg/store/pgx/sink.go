package pgx

import (
	"context"
	"fmt"
	"sort"

	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

var (
	entityColumns = []string{"global_id", "entity_type", "local_id", "name"}
	tripleColumns = []string{"seq", "head", "relation", "tail"}
)

// EntityRow is one row of kg_entity. Name is nil when the local ID has no
// name in its type's mapping.
type EntityRow struct {
	GlobalID int
	Type     common.EntityType
	LocalID  int
	Name     *string
}

// GraphSink writes the global ID space and the global triples to Postgres.
// Every load replaces the previous content.
type GraphSink struct {
	conn        pgxIConn
	entityTable string
	tripleTable string
}

type GraphSinkOption func(*GraphSink)

// WithTables overrides the default kg_entity and kg_triple table names.
func WithTables(entity, triple string) GraphSinkOption {
	return func(s *GraphSink) {
		s.entityTable = entity
		s.tripleTable = triple
	}
}

func NewGraphSink(conn pgxIConn, opts ...GraphSinkOption) *GraphSink {
	s := &GraphSink{
		conn:        conn,
		entityTable: "kg_entity",
		tripleTable: "kg_triple",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// EntityRows lists every entity of the global ID space ordered by global ID.
func EntityRows(globalIDs idmap.GlobalIDMap, names map[common.EntityType]idmap.IDToName) []EntityRow {
	var rows []EntityRow
	for t, locals := range globalIDs {
		for local, global := range locals {
			row := EntityRow{GlobalID: global, Type: t, LocalID: local}
			if name, ok := names[t][local]; ok {
				row.Name = &name
			}
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].GlobalID < rows[j].GlobalID })
	return rows
}

func entityValues(rows []EntityRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{int64(r.GlobalID), string(r.Type), int64(r.LocalID), util.SanitizePostgresTextPtr(r.Name)}
	}
	return out
}

func tripleValues(triples []common.GlobalTriple) [][]any {
	out := make([][]any, len(triples))
	for i, t := range triples {
		out[i] = []any{int64(i), int64(t.Head), util.SanitizePostgresText(t.Relation), int64(t.Tail)}
	}
	return out
}

// Replace truncates both tables and copies the rows in one transaction.
func (s *GraphSink) Replace(ctx context.Context, entities []EntityRow, triples []common.GlobalTriple) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	truncate := fmt.Sprintf("TRUNCATE %s, %s", pgxv5.Identifier{s.tripleTable}.Sanitize(), pgxv5.Identifier{s.entityTable}.Sanitize())
	if _, err := tx.Exec(ctx, truncate); err != nil {
		return fmt.Errorf("failed to truncate sink tables: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgxv5.Identifier{s.entityTable}, entityColumns, pgxv5.CopyFromRows(entityValues(entities)))
	if err != nil {
		return fmt.Errorf("failed to copy entities: %w", err)
	}
	logger.Debug("[Postgres] Copied entities", "rows", n)

	n, err = tx.CopyFrom(ctx, pgxv5.Identifier{s.tripleTable}, tripleColumns, pgxv5.CopyFromRows(tripleValues(triples)))
	if err != nil {
		return fmt.Errorf("failed to copy triples: %w", err)
	}
	logger.Debug("[Postgres] Copied triples", "rows", n)

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
