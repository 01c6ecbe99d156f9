package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/pkg/logger"
	"milano/repository"
)

type SupportService struct {
	Tickets repository.TicketStore
	Users   repository.UserStore
	Now     func() time.Time
}

func NewSupportService(tickets repository.TicketStore, users repository.UserStore) *SupportService {
	return &SupportService{
		Tickets: tickets,
		Users:   users,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

type CreateTicketReq struct {
	UserID   uint   `json:"userId"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type UpdateTicketReq struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

func (s *SupportService) Create(ctx context.Context, req CreateTicketReq) (*entity.SupportTicket, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if req.UserID == 0 || subject == "" || message == "" {
		return nil, apperr.Validation("userId, subject and message are required")
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !slices.Contains(entity.TicketPriorities, priority) {
		return nil, apperr.Validation("priority must be one of %s", strings.Join(entity.TicketPriorities, ", "))
	}

	t := &entity.SupportTicket{
		UserID:   req.UserID,
		Subject:  subject,
		Message:  message,
		Status:   entity.TicketOpen,
		Priority: priority,
	}
	if err := s.Tickets.CreateTicket(ctx, t); err != nil {
		return nil, apperr.Unavailable(err, "could not save ticket")
	}
	logger.FromContext(ctx).WithField("ticket", t.ID).Info("support ticket opened")
	return t, nil
}

// List returns one user's tickets, or every ticket with its author when
// userID is nil.
func (s *SupportService) List(ctx context.Context, userID *uint) ([]entity.SupportTicket, error) {
	tickets, err := s.Tickets.ListTickets(ctx, userID)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not list tickets")
	}
	if tickets == nil {
		tickets = []entity.SupportTicket{}
	}
	if userID != nil || len(tickets) == 0 || s.Users == nil {
		return tickets, nil
	}

	ids := make([]uint, len(tickets))
	for i, t := range tickets {
		ids[i] = t.UserID
	}
	users, err := s.Users.FindUsers(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("ticket authors unavailable")
		return tickets, nil
	}
	for i := range tickets {
		if u, ok := users[tickets[i].UserID]; ok {
			tickets[i].UserName, tickets[i].UserEmail = u.Name, u.Email
		}
	}
	return tickets, nil
}

func (s *SupportService) Update(ctx context.Context, id uint, req UpdateTicketReq) (*entity.SupportTicket, error) {
	if req.Status == nil && req.Priority == nil {
		return nil, apperr.Validation("status or priority is required")
	}
	if req.Status != nil && !slices.Contains(entity.TicketStatuses, *req.Status) {
		return nil, apperr.Validation("status must be one of %s", strings.Join(entity.TicketStatuses, ", "))
	}
	if req.Priority != nil && !slices.Contains(entity.TicketPriorities, *req.Priority) {
		return nil, apperr.Validation("priority must be one of %s", strings.Join(entity.TicketPriorities, ", "))
	}

	err := s.Tickets.UpdateTicket(ctx, id, req.Status, req.Priority, s.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("ticket %d not found", id)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "could not update ticket")
	}
	t, err := s.Tickets.GetTicket(ctx, id)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not load ticket")
	}
	return t, nil
}
