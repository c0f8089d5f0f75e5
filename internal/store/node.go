package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kubev2v/node-inspector/internal/models"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

const (
	nodeTable             = "nodes"
	nodeColID             = "id"
	nodeColName           = "name"
	nodeColDriver         = "driver"
	nodeColProvisionState = "provision_state"
	nodeColLastError      = "last_error"
	nodeColCreatedAt      = "created_at"
	nodeColUpdatedAt      = "updated_at"
)

var nodeColumns = []string{
	nodeColID,
	nodeColName,
	nodeColDriver,
	nodeColProvisionState,
	nodeColLastError,
	nodeColCreatedAt,
	nodeColUpdatedAt,
}

type NodeStore struct {
	db QueryInterceptor
}

func NewNodeStore(db QueryInterceptor) *NodeStore {
	return &NodeStore{db: db}
}

// Create inserts a new node. CreatedAt and UpdatedAt are set when zero.
func (s *NodeStore) Create(ctx context.Context, node *models.Node) error {
	now := time.Now().UTC()
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	if node.UpdatedAt.IsZero() {
		node.UpdatedAt = node.CreatedAt
	}

	query, args, err := sq.Insert(nodeTable).
		Columns(nodeColumns...).
		Values(
			node.ID.String(),
			node.Name,
			node.Driver,
			node.ProvisionState.Value(),
			nullableString(node.LastError),
			node.CreatedAt,
			node.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query for node %s: %w", node.ID, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting node %s: %w", node.ID, err)
	}
	return nil
}

// Get returns the node with the given id or ResourceNotFoundError.
func (s *NodeStore) Get(ctx context.Context, id uuid.UUID) (*models.Node, error) {
	query, args, err := sq.Select(nodeColumns...).
		From(nodeTable).
		Where(sq.Eq{nodeColID: id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query for node %s: %w", id, err)
	}

	node, err := scanNode(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewNodeNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning node %s: %w", id, err)
	}
	return node, nil
}

// List returns the nodes matching the filter. A nil filter returns every node.
func (s *NodeStore) List(ctx context.Context, filter *NodeQueryFilter) ([]models.Node, error) {
	builder := sq.Select(nodeColumns...).From(nodeTable)
	if filter != nil {
		builder = filter.Apply(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing list query: %w", err)
	}
	defer rows.Close()

	nodes := make([]models.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node rows: %w", err)
	}
	return nodes, nil
}

// Update persists the node's provision state and last error.
func (s *NodeStore) Update(ctx context.Context, node *models.Node) error {
	node.UpdatedAt = time.Now().UTC()

	query, args, err := sq.Update(nodeTable).
		Set(nodeColProvisionState, node.ProvisionState.Value()).
		Set(nodeColLastError, nullableString(node.LastError)).
		Set(nodeColUpdatedAt, node.UpdatedAt).
		Where(sq.Eq{nodeColID: node.ID.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update query for node %s: %w", node.ID, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating node %s: %w", node.ID, err)
	}
	return expectRow(res, node.ID)
}

// Delete removes the node with the given id.
func (s *NodeStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := sq.Delete(nodeTable).
		Where(sq.Eq{nodeColID: id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query for node %s: %w", id, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting node %s: %w", id, err)
	}
	return expectRow(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*models.Node, error) {
	var (
		id, driver, state string
		name, lastError   sql.NullString
		node              models.Node
	)
	if err := row.Scan(&id, &name, &driver, &state, &lastError, &node.CreatedAt, &node.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing node id %q: %w", id, err)
	}

	node.ID = parsed
	node.Name = name.String
	node.Driver = driver
	node.ProvisionState = models.ProvisionState(state)
	node.LastError = lastError.String
	return &node, nil
}

func expectRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for node %s: %w", id, err)
	}
	if n == 0 {
		return srvErrors.NewNodeNotFoundError(id)
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
