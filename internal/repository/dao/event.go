package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipationNotFound = errors.New("participation not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null"`
	Description string
	Date        time.Time `gorm:"not null;index"`
	Location    string    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Participation struct {
	ID uint `gorm:"primaryKey"`

	MemberID uint   `gorm:"not null;uniqueIndex:uq_participations_member_event"`
	Member   Member `gorm:"constraint:OnDelete:CASCADE"`
	EventID  uint   `gorm:"not null;uniqueIndex:uq_participations_member_event"`
	Event    Event  `gorm:"constraint:OnDelete:CASCADE"`

	Presence     bool      `gorm:"not null"`
	RegisteredAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", event.ID).
		Select("title", "description", "date", "location").
		Updates(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

// Delete removes an event. Participations cascade away with it; transactions
// referencing the event keep their row with the reference cleared.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) FindFuture(ctx context.Context, now time.Time) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("date >= ?", now).
		Order("date ASC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindPast(ctx context.Context, now time.Time, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("date < ?", now).
		Order("date DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindRecent(ctx context.Context, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// GetOrCreateParticipation registers a member for an event, or hands back the
// existing row when the member is already registered. A concurrent duplicate
// insert resolves the same way instead of surfacing the constraint error.
func (d *EventDAO) GetOrCreateParticipation(ctx context.Context, memberID, eventID uint) (Participation, bool, error) {
	var existing Participation

	db := d.db.WithContext(ctx)
	err := db.First(&existing, "member_id = ? AND event_id = ?", memberID, eventID).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Participation{}, false, err
	}

	participation := Participation{
		MemberID:     memberID,
		EventID:      eventID,
		RegisteredAt: time.Now().UTC(),
	}
	if err := db.Create(&participation).Error; err != nil {
		if isUniqueViolation(err, "uq_participations_member_event") {
			if err := db.First(&existing, "member_id = ? AND event_id = ?", memberID, eventID).Error; err != nil {
				return Participation{}, false, err
			}

			return existing, false, nil
		}

		return Participation{}, false, err
	}

	return participation, true, nil
}

func (d *EventDAO) FindParticipationByID(ctx context.Context, id uint) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).First(&participation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

// UpdateParticipationPresence flips the presence flag. RegisteredAt stays as
// written at creation.
func (d *EventDAO) UpdateParticipationPresence(ctx context.Context, id uint, presence bool) (Participation, error) {
	participation, err := d.FindParticipationByID(ctx, id)
	if err != nil {
		return Participation{}, err
	}

	result := d.db.WithContext(ctx).
		Model(&participation).
		Select("presence").
		Updates(Participation{Presence: presence})
	if result.Error != nil {
		return Participation{}, result.Error
	}
	participation.Presence = presence

	return participation, nil
}

func (d *EventDAO) FindRegisteredEventIDs(ctx context.Context, memberID uint) ([]uint, error) {
	var eventIDs []uint

	result := d.db.WithContext(ctx).
		Model(&Participation{}).
		Where("member_id = ?", memberID).
		Pluck("event_id", &eventIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return eventIDs, nil
}
