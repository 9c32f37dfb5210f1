// cmd/colortrick/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/colortrick/internal/cache"
	"github.com/jason-s-yu/colortrick/internal/config"
	"github.com/jason-s-yu/colortrick/internal/console"
	"github.com/jason-s-yu/colortrick/internal/database"
	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/history"
	"github.com/jason-s-yu/colortrick/internal/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Stdin, os.Stdout, os.Stderr))
}

// run plays one game and returns the process exit code.
func run(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(errOut, "configuration error: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.LogLevel, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "configuration error: LOG_LEVEL: %v\n", err)
		return 1
	}

	term := console.NewTerminal(in, out, console.Setup(cfg.NoColor), logger)

	n, err := term.RequestPlayerCount(cfg.PlayerCountAttempts)
	if err != nil {
		fmt.Fprintf(errOut, "Invalid number of players: %v\n", err)
		return 1
	}
	names, err := term.RequestPlayerNames(n)
	if err != nil {
		fmt.Fprintf(errOut, "Could not read player names: %v\n", err)
		return 1
	}

	sink, closeSinks := buildHistory(ctx, cfg, logger)
	defer closeSinks()

	g, err := game.NewGame(names, game.NewDeck(game.RandomShuffle(cfg.Seed)), game.Collaborators{
		Input:   term,
		Display: term,
		History: sink,
	}, logger)
	if err != nil {
		fmt.Fprintf(errOut, "Could not start the game: %v\n", err)
		return 1
	}

	if _, err := g.Run(ctx); err != nil {
		fmt.Fprintf(errOut, "\nFATAL ERROR: %v\nThe game ended abruptly.\n", err)
		return 1
	}
	return 0
}

// buildHistory always writes the text log, and also the Redis queue and Postgres when
// they are configured and reachable.
func buildHistory(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (history.Multi, func()) {
	sinks := history.Multi{history.NewFileSink(cfg.HistoryFile)}
	var closers []func()

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis history disabled")
		} else {
			sinks = append(sinks, &history.RedisSink{Queue: cache.NewQueue(rdb, cfg.QueueName)})
			closers = append(closers, func() { rdb.Close() })
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err == nil {
			err = db.Migrate(ctx)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			logger.WithError(err).Warn("postgres history disabled")
		} else {
			sinks = append(sinks, &history.PostgresSink{DB: db})
			closers = append(closers, db.Close)
		}
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}
