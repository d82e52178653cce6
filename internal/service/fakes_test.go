package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
)

// In-memory stores mirroring the repository contracts, including the
// conditional stage update and the transactional scrap cascade.

type fakeEquipmentStore struct {
	equipment    map[uuid.UUID]model.Equipment
	openRequests int64
}

func newFakeEquipmentStore() *fakeEquipmentStore {
	return &fakeEquipmentStore{equipment: map[uuid.UUID]model.Equipment{}}
}

func (f *fakeEquipmentStore) add(eq model.Equipment) {
	f.equipment[eq.ID] = eq
}

func (f *fakeEquipmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &eq, nil
}

func (f *fakeEquipmentStore) GetBySerial(_ context.Context, serial string) (*model.Equipment, error) {
	for _, eq := range f.equipment {
		if eq.SerialNumber == serial {
			return &eq, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEquipmentStore) Create(_ context.Context, eq *model.Equipment) error {
	f.equipment[eq.ID] = *eq
	return nil
}

func (f *fakeEquipmentStore) SerialExists(_ context.Context, serial string, excludeID uuid.UUID) (bool, error) {
	for _, eq := range f.equipment {
		if eq.SerialNumber == serial && eq.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEquipmentStore) List(_ context.Context, filter model.EquipmentFilter) ([]model.Equipment, error) {
	out := []model.Equipment{}
	for _, eq := range f.equipment {
		if filter.Department != nil && eq.Department != *filter.Department {
			continue
		}
		if filter.Scrapped != nil && eq.IsScrapped != *filter.Scrapped {
			continue
		}
		out = append(out, eq)
	}
	return out, nil
}

func (f *fakeEquipmentStore) Update(_ context.Context, id uuid.UUID, update model.EquipmentUpdate) error {
	eq, ok := f.equipment[id]
	if !ok {
		return nil
	}
	if update.Name != nil {
		eq.Name = *update.Name
	}
	if update.SerialNumber != nil {
		eq.SerialNumber = *update.SerialNumber
	}
	if update.IsScrapped != nil {
		eq.IsScrapped = *update.IsScrapped
	}
	if update.TeamID != nil {
		eq.TeamID = update.TeamID
	}
	f.equipment[id] = eq
	return nil
}

func (f *fakeEquipmentStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.equipment, id)
	return nil
}

func (f *fakeEquipmentStore) CountOpenRequests(_ context.Context, id uuid.UUID) (int64, error) {
	return f.openRequests, nil
}

type fakeTeamStore struct {
	teams map[uuid.UUID]model.MaintenanceTeam
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: map[uuid.UUID]model.MaintenanceTeam{}}
}

func (f *fakeTeamStore) add(team model.MaintenanceTeam) {
	f.teams[team.ID] = team
}

func (f *fakeTeamStore) GetByID(_ context.Context, id uuid.UUID) (*model.MaintenanceTeam, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &team, nil
}

func (f *fakeTeamStore) Create(_ context.Context, team *model.MaintenanceTeam) error {
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeTeamStore) List(_ context.Context) ([]model.MaintenanceTeam, error) {
	out := []model.MaintenanceTeam{}
	for _, team := range f.teams {
		out = append(out, team)
	}
	return out, nil
}

func (f *fakeTeamStore) Rename(_ context.Context, id uuid.UUID, name string) error {
	team, ok := f.teams[id]
	if !ok {
		return nil
	}
	team.Name = name
	f.teams[id] = team
	return nil
}

func (f *fakeTeamStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamStore) AddTechnician(_ context.Context, teamID, technicianID uuid.UUID) error {
	team := f.teams[teamID]
	team.Technicians = append(team.Technicians, technicianID)
	f.teams[teamID] = team
	return nil
}

func (f *fakeTeamStore) RemoveTechnician(_ context.Context, teamID, technicianID uuid.UUID) (bool, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return false, nil
	}
	for i, tech := range team.Technicians {
		if tech == technicianID {
			team.Technicians = append(team.Technicians[:i], team.Technicians[i+1:]...)
			f.teams[teamID] = team
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeamStore) TeamOfTechnician(_ context.Context, technicianID uuid.UUID) (*uuid.UUID, error) {
	for id, team := range f.teams {
		for _, tech := range team.Technicians {
			if tech == technicianID {
				teamID := id
				return &teamID, nil
			}
		}
	}
	return nil, nil
}

type fakeRequestStore struct {
	requests  map[uuid.UUID]model.MaintenanceRequest
	equipment *fakeEquipmentStore

	scrapErr    error  // injected cascade failure
	beforeApply func() // runs just before the conditional update
}

func newFakeRequestStore(equipment *fakeEquipmentStore) *fakeRequestStore {
	return &fakeRequestStore{
		requests:  map[uuid.UUID]model.MaintenanceRequest{},
		equipment: equipment,
	}
}

func (f *fakeRequestStore) Create(_ context.Context, req *model.MaintenanceRequest) error {
	f.requests[req.ID] = *req
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id uuid.UUID) (*model.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (f *fakeRequestStore) List(_ context.Context, filter model.RequestFilter) ([]model.MaintenanceRequest, error) {
	out := []model.MaintenanceRequest{}
	for _, req := range f.requests {
		if filter.Stage != nil && req.Stage != *filter.Stage {
			continue
		}
		if filter.RequestType != nil && req.RequestType != *filter.RequestType {
			continue
		}
		if filter.EquipmentID != nil && req.EquipmentID != *filter.EquipmentID {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeRequestStore) ListOpenByEquipment(_ context.Context, equipmentID uuid.UUID) ([]model.MaintenanceRequest, error) {
	out := []model.MaintenanceRequest{}
	for _, req := range f.requests {
		if req.EquipmentID == equipmentID && !req.Stage.IsTerminal() {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ListPreventiveInRange(_ context.Context, start, end time.Time) ([]model.MaintenanceRequest, error) {
	out := []model.MaintenanceRequest{}
	for _, req := range f.requests {
		if req.RequestType != model.TypePreventive || req.Stage == model.StageScrap {
			continue
		}
		if req.ScheduledDate == nil {
			continue
		}
		date := model.DateOnly(*req.ScheduledDate)
		if date.Before(start) || date.After(end) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(*out[j].ScheduledDate)
	})
	return out, nil
}

func (f *fakeRequestStore) Update(_ context.Context, id uuid.UUID, update model.RequestUpdate) error {
	req, ok := f.requests[id]
	if !ok {
		return nil
	}
	if update.Subject != nil {
		req.Subject = *update.Subject
	}
	if update.Description != nil {
		req.Description = *update.Description
	}
	if update.Notes != nil {
		req.Notes = *update.Notes
	}
	if update.ScheduledDate != nil {
		req.ScheduledDate = update.ScheduledDate
	}
	if update.AssignedTechnicianID != nil {
		req.AssignedTechnicianID = update.AssignedTechnicianID
	}
	req.UpdatedAt = time.Now().UTC()
	f.requests[id] = req
	return nil
}

// ApplyStageChange mimics the repository transaction: the conditional
// update matches only the expected prior stage, and a failing scrap
// cascade leaves the stage untouched.
func (f *fakeRequestStore) ApplyStageChange(_ context.Context, change model.StageChange) (bool, error) {
	if f.beforeApply != nil {
		f.beforeApply()
	}
	req, ok := f.requests[change.RequestID]
	if !ok || req.Stage != change.From {
		return false, nil
	}
	if change.ScrapEquipmentID != nil && f.scrapErr != nil {
		return false, f.scrapErr
	}

	req.Stage = change.To
	req.CompletedAt = change.CompletedAt
	if change.DurationHours != nil {
		req.DurationHours = change.DurationHours
	}
	req.Overdue = false
	req.UpdatedAt = time.Now().UTC()
	f.requests[change.RequestID] = req

	if change.ScrapEquipmentID != nil {
		eq := f.equipment.equipment[*change.ScrapEquipmentID]
		eq.IsScrapped = true
		f.equipment.equipment[*change.ScrapEquipmentID] = eq
	}
	return true, nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	req, ok := f.requests[id]
	if !ok || req.Stage != model.StageNew {
		return false, nil
	}
	delete(f.requests, id)
	return true, nil
}
