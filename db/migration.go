package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "teamtrack-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("running migrations")
	for _, model := range []interface{}{
		&dbmodels.User{},
		&dbmodels.Project{},
		&dbmodels.ProjectMember{},
		&dbmodels.Task{},
		&dbmodels.TaskTimeLog{},
		&dbmodels.TaskUpdate{},
		&dbmodels.TaskSubtask{},
		&dbmodels.Attendance{},
		&dbmodels.AttendanceBreak{},
		&dbmodels.Notification{},
	} {
		if err := DB.AutoMigrate(model); err != nil {
			return errors.Wrapf(err, "migration failed for %T", model)
		}
	}

	// Partial unique indexes backing the single-open-record invariants. These
	// close the race window between the application-level pre-check and the
	// insert: the second concurrent writer fails on the index, not in code.
	partialIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_break_single_active ON attendance_breaks (attendance_id) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_timelog_single_open ON task_time_logs (task_id, user_id) WHERE end_time IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_membership_single_active ON project_members (project_id, user_id) WHERE is_active`,
	}
	for _, stmt := range partialIndexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "partial index creation failed")
		}
	}
	log.Info("migrations finished")
	return nil
}
