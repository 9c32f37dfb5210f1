// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// RecordGameSummary persists one finished game and its per-player results.
func (db *DB) RecordGameSummary(ctx context.Context, s models.GameSummary) error {
	return db.RecordGameSummaries(ctx, []models.GameSummary{s})
}

// RecordGameSummaries persists a batch in a single transaction. Re-recording a game
// overwrites its rows, so redelivered summaries are harmless.
func (db *DB) RecordGameSummaries(ctx context.Context, batch []models.GameSummary) error {
	err := pgx.BeginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, s := range batch {
			if err := insertSummaryTx(ctx, tx, s); err != nil {
				return fmt.Errorf("game %s: %w", s.GameID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record game summaries: %w", err)
	}
	return nil
}

func insertSummaryTx(ctx context.Context, tx pgx.Tx, s models.GameSummary) error {
	upsertGame := `
		INSERT INTO games (id, finished_at, player_count, tie)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET finished_at = EXCLUDED.finished_at, player_count = EXCLUDED.player_count, tie = EXCLUDED.tie
	`
	if _, err := tx.Exec(ctx, upsertGame, s.GameID, s.FinishedAt, len(s.Players), s.Tie); err != nil {
		return err
	}

	winners := make(map[string]bool, len(s.Winners))
	for _, w := range s.Winners {
		winners[w] = true
	}
	for i, p := range s.Players {
		q := `
			INSERT INTO game_results (game_id, position, player_name, score, rounds_won, did_win)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id, position)
			DO UPDATE SET player_name=$3, score=$4, rounds_won=$5, did_win=$6
		`
		if _, err := tx.Exec(ctx, q, s.GameID, i+1, p.Name, p.Score, p.RoundsWon, winners[p.Name]); err != nil {
			return err
		}
	}
	return nil
}

// RecentGames returns up to limit summaries, newest first.
func (db *DB) RecentGames(ctx context.Context, limit int) ([]models.GameSummary, error) {
	rows, err := db.Query(ctx, `
		SELECT id, finished_at, tie
		FROM games
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	var games []models.GameSummary
	for rows.Next() {
		var s models.GameSummary
		if err := rows.Scan(&s.GameID, &s.FinishedAt, &s.Tie); err != nil {
			rows.Close()
			return nil, err
		}
		games = append(games, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadResults(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// loadResults fills in the players and winners of every game with a single query.
func (db *DB) loadResults(ctx context.Context, games []models.GameSummary) error {
	if len(games) == 0 {
		return nil
	}
	ids := make([]string, len(games))
	byID := make(map[uuid.UUID]*models.GameSummary, len(games))
	for i := range games {
		ids[i] = games[i].GameID.String()
		byID[games[i].GameID] = &games[i]
	}

	rows, err := db.Query(ctx, `
		SELECT game_id, player_name, score, rounds_won, did_win
		FROM game_results
		WHERE game_id = ANY($1::uuid[])
		ORDER BY game_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("query results for %d games: %w", len(games), err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			gameID uuid.UUID
			p      models.PlayerResult
			didWin bool
		)
		if err := rows.Scan(&gameID, &p.Name, &p.Score, &p.RoundsWon, &didWin); err != nil {
			return err
		}
		s, ok := byID[gameID]
		if !ok {
			continue
		}
		s.Players = append(s.Players, p)
		if didWin {
			s.Winners = append(s.Winners, p.Name)
		}
	}
	return rows.Err()
}

// DeleteGame removes a game and its results.
func (db *DB) DeleteGame(ctx context.Context, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	return err
}
