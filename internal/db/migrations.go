package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'maintenance_stage') THEN
			CREATE TYPE maintenance_stage AS ENUM ('NEW', 'IN_PROGRESS', 'REPAIRED', 'SCRAP');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'maintenance_request_type') THEN
			CREATE TYPE maintenance_request_type AS ENUM ('CORRECTIVE', 'PREVENTIVE');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS maintenance_teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS team_technicians (
		team_id UUID NOT NULL REFERENCES maintenance_teams(id),
		technician_id UUID NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (team_id, technician_id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_team_technicians_technician ON team_technicians (technician_id);`,
	`CREATE TABLE IF NOT EXISTS equipment (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		serial_number VARCHAR(64) NOT NULL,
		category VARCHAR(64) NOT NULL,
		purchase_date DATE NOT NULL,
		warranty_expiry DATE NOT NULL,
		department VARCHAR(128) NOT NULL,
		assigned_employee VARCHAR(128),
		team_id UUID REFERENCES maintenance_teams(id),
		location VARCHAR(128) NOT NULL,
		is_scrapped BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_equipment_serial_number ON equipment (serial_number);`,
	`CREATE INDEX IF NOT EXISTS idx_equipment_team_id ON equipment (team_id) WHERE team_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS maintenance_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		subject VARCHAR(256) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		request_type maintenance_request_type NOT NULL,
		equipment_id UUID NOT NULL REFERENCES equipment(id),
		category VARCHAR(64) NOT NULL,
		team_id UUID REFERENCES maintenance_teams(id),
		assigned_technician_id UUID,
		scheduled_date DATE,
		duration_hours NUMERIC(8,2),
		stage maintenance_stage NOT NULL DEFAULT 'NEW',
		overdue BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		created_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_requests_stage ON maintenance_requests (stage);`,
	`CREATE INDEX IF NOT EXISTS idx_requests_equipment_id ON maintenance_requests (equipment_id);`,
	`CREATE INDEX IF NOT EXISTS idx_requests_type_scheduled ON maintenance_requests (request_type, scheduled_date) WHERE scheduled_date IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
