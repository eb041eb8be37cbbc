package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wombatlabs/wombat-combat/internal/common/clock"
	"github.com/wombatlabs/wombat-combat/internal/common/uuid"
	"github.com/wombatlabs/wombat-combat/internal/handlers/discord"
	playerRepo "github.com/wombatlabs/wombat-combat/internal/repositories/player"
	roomRepo "github.com/wombatlabs/wombat-combat/internal/repositories/room"
	"github.com/wombatlabs/wombat-combat/internal/rng"
	"github.com/wombatlabs/wombat-combat/internal/scheduler"
	"github.com/wombatlabs/wombat-combat/internal/services/arena"
	"github.com/wombatlabs/wombat-combat/internal/services/growth"
)

// sweepInterval is how often the background sweeper scans for expired
// duels, trials, lobbies and sentences
const sweepInterval = 20 * time.Second

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	rooms, err := roomRepo.NewRedis(&roomRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create room repository: %v", err)
	}

	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create player repository: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	session, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	messenger, err := discord.NewChannelMessenger(session)
	if err != nil {
		log.Fatalf("Failed to create messenger: %v", err)
	}

	// Shared collaborators
	systemClock := &clock.DefaultClock{}
	ids := uuid.New()
	roller := rng.New(&rng.Config{})
	timers := &scheduler.DefaultScheduler{}

	// Initialize services
	growthSvc, err := growth.New(&growth.Config{
		PlayerRepo: players,
		RoomRepo:   rooms,
		Clock:      systemClock,
		Roller:     roller,
	})
	if err != nil {
		log.Fatalf("Failed to create growth service: %v", err)
	}

	arenaSvc, err := arena.New(&arena.Config{
		RoomRepo:   rooms,
		PlayerRepo: players,
		Messenger:  messenger,
		Clock:      systemClock,
		UUID:       ids,
		Roller:     roller,
		Scheduler:  timers,
	})
	if err != nil {
		log.Fatalf("Failed to create arena service: %v", err)
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Session:       session,
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		GrowthService: growthSvc,
		ArenaService:  arenaSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Run the timeout sweeper until shutdown
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, arenaSvc)

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopSweeper()

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// runSweeper drives periodic sweeps until ctx is cancelled
func runSweeper(ctx context.Context, svc arena.Service) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Sweep(ctx, &arena.SweepInput{}); err != nil {
				log.Printf("Sweep failed: %v", err)
			}
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
