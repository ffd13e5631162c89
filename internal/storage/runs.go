package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is a finished game as stored in the database.
type Run struct {
	ID            int64
	RunID         string
	Variant       string
	PlayerID      string
	PlayerName    string
	Score         int
	FishCollected int
	TimeElapsed   int // Seconds
	LevelsCleared int
	Outcome       string
	CreatedAt     time.Time
}

// PlayerStats are lifetime totals for one player.
type PlayerStats struct {
	PlayerID    string
	PlayerName  string
	TotalFish   int
	GamesPlayed int
	BestScore   int
	UpdatedAt   time.Time
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant    string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	TotalFish  int64
	Wins       int
	LastPlayed time.Time
}

// SaveRun records a finished run and folds it into the player's stats.
// A missing RunID is generated. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.Exec(
		`INSERT INTO runs
		 (run_id, variant, player_id, player_name, score, fish_collected, time_elapsed, levels_cleared, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Variant, r.PlayerID, r.PlayerName, r.Score,
		r.FishCollected, r.TimeElapsed, r.LevelsCleared, r.Outcome,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO player_stats (player_id, player_name, total_fish, games_played, best_score, updated_at)
		 VALUES (?, ?, ?, 1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player_id) DO UPDATE SET
			player_name = excluded.player_name,
			total_fish = total_fish + excluded.total_fish,
			games_played = games_played + 1,
			best_score = MAX(best_score, excluded.best_score),
			updated_at = CURRENT_TIMESTAMP`,
		r.PlayerID, r.PlayerName, r.FishCollected, r.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot update player stats: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, run_id, variant, player_id, player_name, score,
	fish_collected, time_elapsed, levels_cleared, outcome, created_at`

// TopRuns retrieves the top N runs for the given variant.
// Results are ordered by score descending.
func (s *Store) TopRuns(variant string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE variant = ?
		 ORDER BY score DESC, time_elapsed ASC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
}

// PlayerRuns retrieves a player's most recent runs.
func (s *Store) PlayerRuns(playerID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs
		 WHERE player_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		playerID, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Variant, &r.PlayerID, &r.PlayerName, &r.Score,
			&r.FishCollected, &r.TimeElapsed, &r.LevelsCleared, &r.Outcome, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// HighScore returns the highest score for the given variant.
// Returns 0 if no runs exist.
func (s *Store) HighScore(variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE variant = ?",
		variant,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes all runs for the given variant. Player stats are kept.
func (s *Store) ClearRuns(variant string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// PlayerStats returns the lifetime stats of a player, or nil if the player
// has never finished a run.
func (s *Store) PlayerStats(playerID string) (*PlayerStats, error) {
	var ps PlayerStats
	var updatedAt any
	err := s.db.QueryRow(
		`SELECT player_id, player_name, total_fish, games_played, best_score, updated_at
		 FROM player_stats WHERE player_id = ?`,
		playerID,
	).Scan(&ps.PlayerID, &ps.PlayerName, &ps.TotalFish, &ps.GamesPlayed, &ps.BestScore, &updatedAt)

	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player stats: %w", err)
	}
	ps.UpdatedAt = parseTime(updatedAt)
	return &ps, nil
}

// TopPlayers returns players ordered by best score.
func (s *Store) TopPlayers(limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT player_id, player_name, total_fish, games_played, best_score, updated_at
		 FROM player_stats
		 ORDER BY best_score DESC, total_fish DESC, player_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	var players []PlayerStats
	for rows.Next() {
		var ps PlayerStats
		var updatedAt any
		if err := rows.Scan(&ps.PlayerID, &ps.PlayerName, &ps.TotalFish, &ps.GamesPlayed, &ps.BestScore, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ps.UpdatedAt = parseTime(updatedAt)
		players = append(players, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return players, nil
}

// GetVariantStats retrieves aggregated statistics for a variant.
func (s *Store) GetVariantStats(variant string) (*VariantStats, error) {
	stats := &VariantStats{Variant: variant}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(fish_collected), 0), COALESCE(SUM(outcome = 'won'), 0), MAX(created_at)
		 FROM runs WHERE variant = ?`,
		variant,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TotalFish, &stats.Wins, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get variant stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllVariantStats retrieves statistics for every variant that has runs.
func (s *Store) GetAllVariantStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), MAX(score), AVG(score), SUM(fish_collected),
		        SUM(outcome = 'won'), MAX(created_at)
		 FROM runs
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all variant stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var vs VariantStats
		var lastPlayed any
		if err := rows.Scan(&vs.Variant, &vs.RunsCount, &vs.HighScore, &vs.AvgScore, &vs.TotalFish, &vs.Wins, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		vs.LastPlayed = parseTime(lastPlayed)
		stats[vs.Variant] = &vs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
