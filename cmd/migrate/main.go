package main

import (
	"log"

	"academy-be/internal/config"
	"academy-be/internal/model"
	"academy-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.ParentStudent{},
		&model.FeeDefinition{},
		&model.Fee{},
		&model.Subscription{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating views...")
	postMigrationSQL := []string{
		// Outstanding balance per student, used by admin dashboards.
		`CREATE OR REPLACE VIEW student_outstanding_fees AS
		 SELECT f.admin_id, f.student_id, f.currency, COUNT(*) AS open_fees, SUM(f.amount) AS outstanding
		 FROM fees f
		 WHERE f.status IN ('PENDING', 'OVERDUE')
		 GROUP BY f.admin_id, f.student_id, f.currency;`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
