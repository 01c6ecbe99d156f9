package entity

import "time"

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	TicketStatuses   = []string{TicketOpen, TicketInProgress, TicketClosed}
	TicketPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type SupportTicket struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"userId"`
	Subject  string `gorm:"size:255;not null" json:"subject"`
	Message  string `gorm:"not null" json:"message"`
	Status   string `gorm:"size:50;not null" json:"status"`
	Priority string `gorm:"size:50;not null" json:"priority"`

	// admin listing only
	UserName  string `gorm:"-" json:"userName,omitempty"`
	UserEmail string `gorm:"-" json:"userEmail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
