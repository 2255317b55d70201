package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrParticipationNotFound = repository.ErrParticipationNotFound
	ErrNoLinkedMember        = errors.New("only members can register for events")
)

// pastEventsLimit caps the "recent past" bucket of the public listing.
const pastEventsLimit = 5

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	FindFuture(ctx context.Context, now time.Time) ([]domain.Event, error)
	FindPast(ctx context.Context, now time.Time, limit int) ([]domain.Event, error)
	RegisterParticipation(ctx context.Context, memberID, eventID uint) (domain.Participation, bool, error)
	UpdateParticipationPresence(ctx context.Context, id uint, presence bool) (domain.Participation, error)
	FindRegisteredEventIDs(ctx context.Context, memberID uint) ([]uint, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// ListEvents is the public listing: upcoming events ascending, the five most
// recent past events descending. When the caller is signed in with a linked
// member, the listing also says which events that member is registered to.
func (s *EventService) ListEvents(ctx context.Context, now time.Time, account *domain.Account) (domain.EventListing, error) {
	future, err := s.repo.FindFuture(ctx, now)
	if err != nil {
		return domain.EventListing{}, fmt.Errorf("s.repo.FindFuture -> %w", err)
	}

	past, err := s.repo.FindPast(ctx, now, pastEventsLimit)
	if err != nil {
		return domain.EventListing{}, fmt.Errorf("s.repo.FindPast -> %w", err)
	}

	listing := domain.EventListing{
		Future: future,
		Past:   past,
	}

	if account != nil && account.HasMember() {
		registered, err := s.repo.FindRegisteredEventIDs(ctx, *account.MemberID)
		if err != nil {
			return domain.EventListing{}, fmt.Errorf("s.repo.FindRegisteredEventIDs -> %w", err)
		}
		listing.RegisteredEventIDs = registered
	}

	return listing, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteEvent removes the event; its participations go with it while any
// ledger entries pointing at it survive with the reference cleared.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// RegisterParticipation signs the caller's member up for an event. The call
// is idempotent: registering twice hands back the original row with
// created=false.
func (s *EventService) RegisterParticipation(ctx context.Context, account domain.Account, eventID uint) (domain.Participation, bool, error) {
	if !account.HasMember() {
		return domain.Participation{}, false, ErrNoLinkedMember
	}

	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return domain.Participation{}, false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	participation, created, err := s.repo.RegisterParticipation(ctx, *account.MemberID, eventID)
	if err != nil {
		return domain.Participation{}, false, fmt.Errorf("s.repo.RegisterParticipation -> %w", err)
	}

	return participation, created, nil
}

func (s *EventService) UpdateParticipation(ctx context.Context, id uint, presence bool) (domain.Participation, error) {
	updated, err := s.repo.UpdateParticipationPresence(ctx, id, presence)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.UpdateParticipationPresence -> %w", err)
	}

	return updated, nil
}
