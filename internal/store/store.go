package store

import "database/sql"

// Store owns the database handle and the node repository built on top of it.
type Store struct {
	db    *sql.DB
	nodes *NodeStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		nodes: NewNodeStore(newQueryInterceptor(db)),
	}
}

func (s *Store) Nodes() *NodeStore {
	return s.nodes
}

func (s *Store) Close() error {
	return s.db.Close()
}
