package models

import (
	"time"
)

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`     // fixed at creation
	TicketsSold int       `json:"tickets_sold"` // invariant: tickets_sold <= capacity
	Status      string    `json:"status"`       // draft, published, ended
}
