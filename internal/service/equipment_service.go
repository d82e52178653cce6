package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

// EquipmentStore is the full persistence surface for equipment records.
type EquipmentStore interface {
	EquipmentLookup
	Create(ctx context.Context, eq *model.Equipment) error
	SerialExists(ctx context.Context, serial string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error)
	Update(ctx context.Context, id uuid.UUID, update model.EquipmentUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountOpenRequests(ctx context.Context, id uuid.UUID) (int64, error)
}

type EquipmentService struct {
	equipment EquipmentStore
	log       zerolog.Logger
}

func NewEquipmentService(equipment EquipmentStore, log zerolog.Logger) *EquipmentService {
	return &EquipmentService{equipment: equipment, log: log}
}

type CreateEquipmentInput struct {
	Name             string
	SerialNumber     string
	Category         string
	PurchaseDate     time.Time
	WarrantyExpiry   time.Time
	Department       string
	AssignedEmployee *string
	TeamID           *uuid.UUID
	Location         string
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, input CreateEquipmentInput) (*model.Equipment, error) {
	if input.Name == "" || input.SerialNumber == "" {
		return nil, fmt.Errorf("%w: name and serial_number are required", ErrInvalidInput)
	}

	taken, err := s.equipment.SerialExists(ctx, input.SerialNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSerialTaken
	}

	now := time.Now().UTC()
	equipment := &model.Equipment{
		ID:               uuid.New(),
		Name:             input.Name,
		SerialNumber:     input.SerialNumber,
		Category:         input.Category,
		PurchaseDate:     input.PurchaseDate,
		WarrantyExpiry:   input.WarrantyExpiry,
		Department:       input.Department,
		AssignedEmployee: input.AssignedEmployee,
		TeamID:           input.TeamID,
		Location:         input.Location,
		IsScrapped:       false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.equipment.Create(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return equipment, nil
}

func (s *EquipmentService) ListEquipment(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	return s.equipment.List(ctx, filter)
}

// UpdateEquipment applies a partial edit. The scrap flag is one-way: a
// request to flip it back to false is rejected.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uuid.UUID, update model.EquipmentUpdate) (*model.Equipment, error) {
	equipment, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.IsScrapped != nil && equipment.IsScrapped && !*update.IsScrapped {
		return nil, ErrCannotUnscrap
	}
	if update.SerialNumber != nil {
		taken, err := s.equipment.SerialExists(ctx, *update.SerialNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSerialTaken
		}
	}

	if err := s.equipment.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetEquipment(ctx, id)
}

// DeleteEquipment refuses to remove equipment that still has open requests.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEquipment(ctx, id); err != nil {
		return err
	}

	open, err := s.equipment.CountOpenRequests(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrEquipmentInUse
	}
	return s.equipment.Delete(ctx, id)
}

func (s *EquipmentService) WarrantyStatus(ctx context.Context, id uuid.UUID) (*model.WarrantyStatus, error) {
	equipment, err := s.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	today := model.DateOnly(time.Now().UTC())
	expiry := model.DateOnly(equipment.WarrantyExpiry)
	days := int(expiry.Sub(today).Hours() / 24)

	return &model.WarrantyStatus{
		EquipmentID:    equipment.ID,
		WarrantyExpiry: equipment.WarrantyExpiry,
		Expired:        expiry.Before(today),
		DaysRemaining:  days,
	}, nil
}
