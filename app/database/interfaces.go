package database

import (
	"github.com/buyfresh/buyfresh/app/grocery"
)

// ListRepository handles storage of shared shopping lists
type ListRepository interface {
	CreateList(items []grocery.ListItem) (string, error)
	GetList(id string) (*List, error)
}
