package models

import (
	"time"
)

type TicketStatus string

const (
	TicketActive    TicketStatus = "ativo"
	TicketUsed      TicketStatus = "usado"
	TicketCancelled TicketStatus = "cancelado"
)

// Ticket is one admission unit. A transaction for quantity=3 yields 3 rows,
// each independently scannable and cancellable.
type Ticket struct {
	ID            string       `json:"id"`
	EventID       string       `json:"event_id"`
	BuyerID       string       `json:"buyer_id"`
	TransactionID string       `json:"transaction_id"`
	TicketCode    string       `json:"ticket_code"`
	Status        TicketStatus `json:"status"`
	PurchaseDate  time.Time    `json:"purchase_date"`
}
