package models

// Faculty represents a school faculty (house)
type Faculty struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}
