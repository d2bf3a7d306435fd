package domain

import "time"

// Company is an entry of the contractor directory. Work packages reference
// the company responsible for them.
type Company struct {
	ID        string
	Name      string
	Trade     string
	Color     string
	CreatedAt time.Time
}
