package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/model"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(database.Config{DSN: dsn})
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, gormDB.AutoMigrate(&model.User{}, &model.Diagnosis{}))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DiagnosisRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	user := &entity.User{
		Id:           uuid.New(),
		Email:        "test-integration-" + uuid.NewString() + "@example.com",
		FullName:     "Integration Test User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	t.Cleanup(func() {
		gormDB.Where("user_id = ?", user.Id).Delete(&model.Diagnosis{})
		gormDB.Delete(&model.User{}, "id = ?", user.Id)
	})

	t.Run("Find user by email ignores case", func(t *testing.T) {
		found, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: "  " + user.Email + " "})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.Id, found.Id)
	})

	t.Run("History is owned and ordered", func(t *testing.T) {
		repo := uow.DiagnosisRepository()
		first := &entity.DiagnosisRecord{
			UserId:    user.Id,
			Disease:   "Common Cold",
			Symptoms:  []string{"Cough"},
			Severity:  "mild",
			Medicines: []string{"Rest"},
			Urgency:   "low",
			AiScore:   0.7,
			RuleScore: 0.64,
		}
		require.NoError(t, repo.Create(ctx, first))
		assert.NotEqual(t, uuid.Nil, first.Id)

		second := &entity.DiagnosisRecord{
			UserId:    user.Id,
			Disease:   "Influenza",
			Symptoms:  []string{"Fever", "Cough"},
			Severity:  "severe",
			Medicines: []string{},
			Urgency:   "medium",
			AiScore:   0.85,
			RuleScore: 0.78,
		}
		require.NoError(t, repo.Create(ctx, second))

		records, err := repo.FindAll(ctx,
			specification.UserOwnedBy{UserID: user.Id},
			specification.NewestFirst{},
		)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Influenza", records[0].Disease)
		assert.Equal(t, []string{"Fever", "Cough"}, records[0].Symptoms)

		mild, err := repo.Count(ctx, specification.UserOwnedBy{UserID: user.Id}, specification.BySeverity{Severity: "mild"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), mild)

		// another owner cannot delete the record
		affected, err := repo.Delete(ctx, specification.ByID{ID: first.Id}, specification.UserOwnedBy{UserID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)

		affected, err = repo.Delete(ctx, specification.ByID{ID: first.Id}, specification.UserOwnedBy{UserID: user.Id})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})
}
