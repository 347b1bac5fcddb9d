package postgres

import "time"

type playerTableModel struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Role        string    `db:"role"`
	Nationality string    `db:"nationality"`
	IsOverseas  bool      `db:"is_overseas"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
