package database

import (
	"time"

	"github.com/buyfresh/buyfresh/app/grocery"
)

// List is a shared shopping list record
type List struct {
	ID        string
	Items     []grocery.ListItem
	CreatedAt time.Time
}
