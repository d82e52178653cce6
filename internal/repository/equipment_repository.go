package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

const equipmentColumns = `
	id,
	name,
	serial_number,
	category,
	purchase_date,
	warranty_expiry,
	department,
	assigned_employee,
	team_id,
	location,
	is_scrapped,
	created_at,
	updated_at
`

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *model.Equipment) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO equipment (
			id,
			name,
			serial_number,
			category,
			purchase_date,
			warranty_expiry,
			department,
			assigned_employee,
			team_id,
			location,
			is_scrapped,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		eq.ID,
		eq.Name,
		eq.SerialNumber,
		eq.Category,
		eq.PurchaseDate,
		eq.WarrantyExpiry,
		eq.Department,
		eq.AssignedEmployee,
		eq.TeamID,
		eq.Location,
		eq.IsScrapped,
		eq.CreatedAt,
		eq.UpdatedAt,
	).Error
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	var eq model.Equipment
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&eq).Error
	if err != nil {
		return nil, err
	}
	if eq.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &eq, nil
}

func (r *EquipmentRepository) GetBySerial(ctx context.Context, serial string) (*model.Equipment, error) {
	var eq model.Equipment
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE serial_number = ?
		LIMIT 1
	`, serial).Scan(&eq).Error
	if err != nil {
		return nil, err
	}
	if eq.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &eq, nil
}

// SerialExists reports whether another equipment record already uses the
// serial number. excludeID skips the record being edited.
func (r *EquipmentRepository) SerialExists(ctx context.Context, serial string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM equipment
		WHERE serial_number = ? AND id <> ?
	`, serial, excludeID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EquipmentRepository) List(ctx context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	baseQuery := `
		SELECT ` + equipmentColumns + `
		FROM equipment
		WHERE 1=1
	`
	var (
		filters []string
		args    []interface{}
	)
	if filter.Department != nil {
		filters = append(filters, "department = ?")
		args = append(args, *filter.Department)
	}
	if filter.Scrapped != nil {
		filters = append(filters, "is_scrapped = ?")
		args = append(args, *filter.Scrapped)
	}
	if filter.TeamID != nil {
		filters = append(filters, "team_id = ?")
		args = append(args, *filter.TeamID)
	}
	if filter.Category != nil {
		filters = append(filters, "category = ?")
		args = append(args, *filter.Category)
	}
	if len(filters) > 0 {
		baseQuery += " AND " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	equipment := []model.Equipment{}
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&equipment).Error; err != nil {
		return nil, err
	}
	return equipment, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, id uuid.UUID, update model.EquipmentUpdate) error {
	var (
		sets []string
		args []interface{}
	)
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.SerialNumber != nil {
		sets = append(sets, "serial_number = ?")
		args = append(args, *update.SerialNumber)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}
	if update.PurchaseDate != nil {
		sets = append(sets, "purchase_date = ?")
		args = append(args, *update.PurchaseDate)
	}
	if update.WarrantyExpiry != nil {
		sets = append(sets, "warranty_expiry = ?")
		args = append(args, *update.WarrantyExpiry)
	}
	if update.Department != nil {
		sets = append(sets, "department = ?")
		args = append(args, *update.Department)
	}
	if update.AssignedEmployee != nil {
		sets = append(sets, "assigned_employee = ?")
		args = append(args, *update.AssignedEmployee)
	}
	if update.TeamID != nil {
		sets = append(sets, "team_id = ?")
		args = append(args, *update.TeamID)
	}
	if update.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *update.Location)
	}
	if update.IsScrapped != nil {
		sets = append(sets, "is_scrapped = ?")
		args = append(args, *update.IsScrapped)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE equipment SET %s WHERE id = ?", strings.Join(sets, ", "))
	return r.db.WithContext(ctx).Exec(query, args...).Error
}

func (r *EquipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM equipment WHERE id = ?`, id).Error
}

// CountOpenRequests counts requests for the equipment still in a
// non-terminal stage.
func (r *EquipmentRepository) CountOpenRequests(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM maintenance_requests
		WHERE equipment_id = ? AND stage NOT IN (?, ?)
	`, id, model.StageRepaired, model.StageScrap).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
