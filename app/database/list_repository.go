package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/buyfresh/buyfresh/app/grocery"
)

const listIDLength = 8

// SQLListRepository stores shopping lists as one JSON blob per row
type SQLListRepository struct {
	db *DB
}

func NewListRepository(db *DB) *SQLListRepository {
	return &SQLListRepository{db: db}
}

// CreateList stores the items under a new short identifier and returns it
func (r *SQLListRepository) CreateList(items []grocery.ListItem) (string, error) {
	if items == nil {
		items = []grocery.ListItem{}
	}

	blob, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list items: %w", err)
	}

	id, err := gonanoid.New(listIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate list id: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO shopping_lists (id, items)
		VALUES (?, ?)
	`, id, string(blob))
	if err != nil {
		return "", fmt.Errorf("failed to insert list: %w", err)
	}

	return id, nil
}

// GetList returns the stored list, or nil when the id is unknown
func (r *SQLListRepository) GetList(id string) (*List, error) {
	list := &List{ID: id}
	var blob string

	err := r.db.QueryRow(`
		SELECT items, created_at
		FROM shopping_lists
		WHERE id = ?
	`, id).Scan(&blob, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if err := json.Unmarshal([]byte(blob), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to decode list items: %w", err)
	}

	return list, nil
}
