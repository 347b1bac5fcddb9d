package postgres

import "time"

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Short     string    `db:"short"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seasonTableModel struct {
	ID        int64  `db:"id"`
	Year      int    `db:"year"`
	Name      string `db:"name"`
	IsCurrent bool   `db:"is_current"`
}
