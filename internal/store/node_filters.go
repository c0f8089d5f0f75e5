package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/node-inspector/internal/models"
	"github.com/kubev2v/node-inspector/pkg/filter"
)

type NodeFilterFunc func(sq.SelectBuilder) sq.SelectBuilder

type NodeQueryFilter struct {
	filters []NodeFilterFunc
}

func NewNodeQueryFilter() *NodeQueryFilter {
	return &NodeQueryFilter{
		filters: make([]NodeFilterFunc, 0),
	}
}

func (f *NodeQueryFilter) Add(filter NodeFilterFunc) *NodeQueryFilter {
	f.filters = append(f.filters, filter)
	return f
}

func (f *NodeQueryFilter) ByProvisionState(states ...models.ProvisionState) *NodeQueryFilter {
	if len(states) == 0 {
		return f
	}
	values := make([]string, len(states))
	for i, s := range states {
		values[i] = s.Value()
	}
	return f.Add(func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{nodeColProvisionState: values})
	})
}

func (f *NodeQueryFilter) ByDriver(drivers ...string) *NodeQueryFilter {
	if len(drivers) == 0 {
		return f
	}
	return f.Add(func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{nodeColDriver: drivers})
	})
}

func (f *NodeQueryFilter) Limit(limit uint64) *NodeQueryFilter {
	return f.Add(func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	})
}

func (f *NodeQueryFilter) OrderByCreated() *NodeQueryFilter {
	return f.Add(func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy(nodeColCreatedAt+" ASC", nodeColID+" ASC")
	})
}

func (f *NodeQueryFilter) Apply(builder sq.SelectBuilder) sq.SelectBuilder {
	for _, filter := range f.filters {
		builder = filter(builder)
	}
	return builder
}

var nodeFilterColumns = filter.Columns{
	"id":              {Name: nodeColID, Kind: filter.Text},
	"name":            {Name: nodeColName, Kind: filter.Text},
	"driver":          {Name: nodeColDriver, Kind: filter.Text},
	"provision_state": {Name: nodeColProvisionState, Kind: filter.Text},
	"last_error":      {Name: nodeColLastError, Kind: filter.Text},
	"created_at":      {Name: nodeColCreatedAt, Kind: filter.Timestamp},
	"updated_at":      {Name: nodeColUpdatedAt, Kind: filter.Timestamp},
}

// ParseNodeExpression compiles a filter expression over the node fields.
func ParseNodeExpression(src string) (filter.Expression, error) {
	return filter.Parse([]byte(src), nodeFilterColumns)
}

func (f *NodeQueryFilter) ByExpression(expr filter.Expression) *NodeQueryFilter {
	if expr == nil {
		return f
	}
	return f.Add(func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(expr)
	})
}
