package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewTeamService(newFakeTeamStore(), zerolog.Nop())

	team, err := svc.CreateTeam(ctx, "Electrical")
	require.NoError(t, err)
	assert.Empty(t, team.Technicians)

	_, err = svc.CreateTeam(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	renamed, err := svc.RenameTeam(ctx, team.ID, "Electrical & Controls")
	require.NoError(t, err)
	assert.Equal(t, "Electrical & Controls", renamed.Name)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID))
	_, err = svc.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTechnicianExclusive(t *testing.T) {
	ctx := context.Background()
	svc := NewTeamService(newFakeTeamStore(), zerolog.Nop())

	first, err := svc.CreateTeam(ctx, "Mechanics")
	require.NoError(t, err)
	second, err := svc.CreateTeam(ctx, "Hydraulics")
	require.NoError(t, err)

	tech := uuid.New()
	got, err := svc.AddTechnician(ctx, first.ID, tech)
	require.NoError(t, err)
	assert.True(t, got.HasTechnician(tech))

	// Already on a team, any team, including the same one.
	_, err = svc.AddTechnician(ctx, second.ID, tech)
	assert.ErrorIs(t, err, ErrTechnicianTaken)
	_, err = svc.AddTechnician(ctx, first.ID, tech)
	assert.ErrorIs(t, err, ErrTechnicianTaken)

	// Removal frees the technician for another team.
	_, err = svc.RemoveTechnician(ctx, first.ID, tech)
	require.NoError(t, err)
	got, err = svc.AddTechnician(ctx, second.ID, tech)
	require.NoError(t, err)
	assert.True(t, got.HasTechnician(tech))
}

func TestRemoveTechnicianNotMember(t *testing.T) {
	ctx := context.Background()
	svc := NewTeamService(newFakeTeamStore(), zerolog.Nop())

	team, err := svc.CreateTeam(ctx, "Mechanics")
	require.NoError(t, err)

	_, err = svc.RemoveTechnician(ctx, team.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RemoveTechnician(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
