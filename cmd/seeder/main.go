package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/standings"
	"github.com/mauv0809/arena/internal/tournament"
)

// Seeded definitions get stable ids so running the seeder twice updates
// them in place.
var catalogNamespace = uuid.MustParse("6f1c2a9e-4b7d-4e0a-9c35-0b8d7e2f5a11")

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "arena.db"}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "SEED_DEMO"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func intReq(v int) *int { return &v }

func floatReq(v float64) *float64 { return &v }

func catalog() []achievement.Achievement {
	return []achievement.Achievement{
		{Name: "First Goal", Category: "scoring", Points: 10, Requirements: achievement.Requirements{Goals: intReq(1)}},
		{Name: "Sharpshooter", Category: "scoring", Points: 50, Requirements: achievement.Requirements{Goals: intReq(25)}},
		{Name: "Hat-trick Hero", Category: "scoring", ProgressType: achievement.ProgressBest, Points: 30, Requirements: achievement.Requirements{GoalsInMatch: intReq(3)}},
		{Name: "On Fire", Category: "scoring", ProgressType: achievement.ProgressConsecutive, Points: 40, Requirements: achievement.Requirements{GoalStreak: intReq(5)}},
		{Name: "Playmaker", Category: "passing", Points: 30, Requirements: achievement.Requirements{Assists: intReq(10)}},
		{Name: "Metronome", Category: "passing", ProgressType: achievement.ProgressAverage, Points: 40, Requirements: achievement.Requirements{Passes: intReq(200), PassAccuracy: floatReq(85)}},
		{Name: "The Wall", Category: "defending", Points: 30, Requirements: achievement.Requirements{Saves: intReq(50)}},
		{Name: "Winning Habit", Category: "team", ProgressType: achievement.ProgressConsecutive, Points: 40, Requirements: achievement.Requirements{WinStreak: intReq(5)}},
		{Name: "Regular", Category: "appearances", Points: 20, Requirements: achievement.Requirements{Matches: intReq(20)}},
		{Name: "Man of the Match", Category: "rating", ProgressType: achievement.ProgressBest, Points: 25, Requirements: achievement.Requirements{BestRating: floatReq(9)}},
	}
}

func seedAchievements(ctx context.Context, svc *achievement.Service) error {
	for _, a := range catalog() {
		a.ID = uuid.NewSHA1(catalogNamespace, []byte(a.Name)).String()
		a.Scope = achievement.ScopeGlobal
		a.Active = true
		if _, err := svc.Define(ctx, a); err != nil {
			return fmt.Errorf("define %q: %w", a.Name, err)
		}
		log.Info("Seeded achievement", "name", a.Name, "id", a.ID)
	}
	return nil
}

// seedDemoTournament creates a confirmed four team league with its fixtures
// drawn.
func seedDemoTournament(ctx context.Context, svc *tournament.Service) error {
	start := time.Now().UTC().Truncate(24 * time.Hour).Add(7 * 24 * time.Hour)
	t, err := svc.Create(ctx, tournament.NewTournament{
		Name:                 "Demo League",
		Sport:                "football",
		Format:               tournament.FormatLeague,
		RegistrationDeadline: start.Add(-24 * time.Hour),
		StartDate:            start,
		EndDate:              start.Add(30 * 24 * time.Hour),
		MaxTeams:             8,
		MinTeams:             2,
	})
	if err != nil {
		return err
	}
	for i := 1; i <= 4; i++ {
		team := fmt.Sprintf("demo-team-%d", i)
		if _, err := svc.RegisterTeam(ctx, t.ID, team, nil); err != nil {
			return err
		}
		if _, err := svc.ConfirmTeam(ctx, t.ID, team); err != nil {
			return err
		}
	}
	if _, err := svc.GenerateBrackets(ctx, t.ID); err != nil {
		return err
	}
	log.Info("Seeded demo tournament", "tournamentID", t.ID)
	return nil
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	startTime := time.Now()
	if err := seedAchievements(ctx, achievement.NewService(achievement.New(db))); err != nil {
		log.Fatalf("Failed to seed achievements: %s", err)
	}

	if cfg["SEED_DEMO"] == "true" {
		tournaments := tournament.NewService(db, tournament.NewStore(db), match.New(db),
			pubsub.NewLogOnly(), live.NewHub(nil), metrics.NewService(), standings.DefaultPoints)
		if err := seedDemoTournament(ctx, tournaments); err != nil {
			log.Fatalf("Failed to seed demo tournament: %s", err)
		}
	}

	log.Info("Seeding finished", "duration", time.Since(startTime))
}
