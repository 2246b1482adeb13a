package main

import (
	"log"
	"os"

	"symptom-checker-be/internal/model"
	"symptom-checker-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect
	db, err := database.NewGormDB(database.Config{DSN: dsn, Verbose: true})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions (gen_random_uuid lives in pgcrypto on older servers)
	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.Diagnosis{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Fatalf("Error: AutoMigrate failed for %T: %v", m, err)
		}
	}

	// 5. Ownership: a user's history goes with the user
	log.Println("Step 3: Ensuring foreign keys...")
	fk := `DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_diagnoses_user') THEN
			ALTER TABLE diagnoses ADD CONSTRAINT fk_diagnoses_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
	END $$;`
	if err := db.Exec(fk).Error; err != nil {
		log.Printf("Warn: Failed to add diagnoses foreign key: %v", err)
	}

	log.Println("Migration finished")
}
