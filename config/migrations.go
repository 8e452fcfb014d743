package config

import (
	"fmt"
	"strings"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"zurcher.dev/api/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240110_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Staff{}, &models.Permit{}, &models.Budget{},
					&models.Work{}, &models.WorkImage{}, &models.Inspection{},
					&models.MaterialSet{}, &models.Material{}, &models.Income{},
					&models.Expense{}, &models.Receipt{}, &models.Notification{})
			},
		},
		{
			// Status columns are plain varchars; constrain them so an
			// unlisted value is rejected by the database, not just the
			// handlers.
			ID: "20240112_add_status_checks",
			Migrate: func(tx *gorm.DB) error {
				checks := []struct {
					table, name, column string
					values              []string
				}{
					{"inspections", "chk_inspections_process_status", "process_status", models.ProcessStatuses},
					{"inspections", "chk_inspections_final_status", "final_status",
						[]string{models.FinalStatusPending, models.FinalStatusApproved, models.FinalStatusRejected}},
					{"inspections", "chk_inspections_type", "type",
						[]string{models.InspectionTypeInitial, models.InspectionTypeFinal}},
					{"budgets", "chk_budgets_status", "status",
						[]string{models.BudgetStatusCreated, models.BudgetStatusSend,
							models.BudgetStatusApproved, models.BudgetStatusRejected}},
					{"works", "chk_works_status", "status", models.WorkStatuses},
					{"staffs", "chk_staffs_role", "role",
						[]string{models.RoleOwner, models.RoleAdmin, models.RoleRecept, models.RoleWorker}},
				}
				for _, c := range checks {
					quoted := make([]string, len(c.values))
					for i, v := range c.values {
						quoted[i] = "'" + v + "'"
					}
					sql := fmt.Sprintf(
						"ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s IS NULL OR %s IN (%s))",
						c.table, c.name, c.column, c.column, strings.Join(quoted, ", "))
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				names := []struct{ table, name string }{
					{"inspections", "chk_inspections_process_status"},
					{"inspections", "chk_inspections_final_status"},
					{"inspections", "chk_inspections_type"},
					{"budgets", "chk_budgets_status"},
					{"works", "chk_works_status"},
					{"staffs", "chk_staffs_role"},
				}
				for _, n := range names {
					if err := tx.Exec("ALTER TABLE " + n.table + " DROP CONSTRAINT IF EXISTS " + n.name).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
