package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrParticipationNotFound = dao.ErrParticipationNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	FindFuture(ctx context.Context, now time.Time) ([]dao.Event, error)
	FindPast(ctx context.Context, now time.Time, limit int) ([]dao.Event, error)
	FindRecent(ctx context.Context, limit int) ([]dao.Event, error)
	Count(ctx context.Context) (int64, error)
	GetOrCreateParticipation(ctx context.Context, memberID, eventID uint) (dao.Participation, bool, error)
	FindParticipationByID(ctx context.Context, id uint) (dao.Participation, error)
	UpdateParticipationPresence(ctx context.Context, id uint, presence bool) (dao.Participation, error)
	FindRegisteredEventIDs(ctx context.Context, memberID uint) ([]uint, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDAOToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDAOToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventDAOToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindFuture(ctx context.Context, now time.Time) ([]domain.Event, error) {
	found, err := r.dao.FindFuture(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFuture -> %w", err)
	}

	return eventsDAOToDomain(found), nil
}

func (r *EventRepository) FindPast(ctx context.Context, now time.Time, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindPast(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPast -> %w", err)
	}

	return eventsDAOToDomain(found), nil
}

func (r *EventRepository) FindRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecent -> %w", err)
	}

	return eventsDAOToDomain(found), nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) RegisterParticipation(ctx context.Context, memberID, eventID uint) (domain.Participation, bool, error) {
	participation, created, err := r.dao.GetOrCreateParticipation(ctx, memberID, eventID)
	if err != nil {
		return domain.Participation{}, false, fmt.Errorf("r.dao.GetOrCreateParticipation -> %w", err)
	}

	return participationDAOToDomain(participation), created, nil
}

func (r *EventRepository) UpdateParticipationPresence(ctx context.Context, id uint, presence bool) (domain.Participation, error) {
	updated, err := r.dao.UpdateParticipationPresence(ctx, id, presence)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.UpdateParticipationPresence -> %w", err)
	}

	return participationDAOToDomain(updated), nil
}

func (r *EventRepository) FindRegisteredEventIDs(ctx context.Context, memberID uint) ([]uint, error) {
	ids, err := r.dao.FindRegisteredEventIDs(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegisteredEventIDs -> %w", err)
	}

	return ids, nil
}

func eventDAOToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventDomainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
	}
}

func eventsDAOToDomain(found []dao.Event) []domain.Event {
	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDAOToDomain(e))
	}

	return events
}

func participationDAOToDomain(p dao.Participation) domain.Participation {
	return domain.Participation{
		ID:           p.ID,
		MemberID:     p.MemberID,
		EventID:      p.EventID,
		Presence:     p.Presence,
		RegisteredAt: p.RegisteredAt,
	}
}
