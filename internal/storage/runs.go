package storage

import (
	"fmt"
	"time"
)

// Run outcomes.
const (
	OutcomeFallen = "fallen" // base destroyed
	OutcomeQuit   = "quit"   // player left
	OutcomeFailed = "failed" // engine aborted
)

// Run is the summary of one finished run.
type Run struct {
	ID             int64     `json:"id"`
	Mode           string    `json:"mode"`
	Seed           int64     `json:"seed"`
	Score          int       `json:"score"`
	Days           int       `json:"days"`
	WavesCompleted int       `json:"waves_completed"`
	EnemiesKilled  int       `json:"enemies_killed"`
	TowersBuilt    int       `json:"towers_built"`
	TowersUpgraded int       `json:"towers_upgraded"`
	GoldEarned     int       `json:"gold_earned"`
	Matches        int       `json:"matches"`
	LongestCascade int       `json:"longest_cascade"`
	SwapsMade      int       `json:"swaps_made"`
	Outcome        string    `json:"outcome"`
	DurationSecs   int       `json:"duration_secs"`
	CreatedAt      time.Time `json:"created_at"`
}

// SaveRun records a run summary. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Outcome == "" {
		r.Outcome = OutcomeQuit
	}
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (mode, seed, score, days, waves_completed, enemies_killed, towers_built, towers_upgraded,
		  gold_earned, matches, longest_cascade, swaps_made, outcome, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.Seed, r.Score, r.Days, r.WavesCompleted, r.EnemiesKilled, r.TowersBuilt, r.TowersUpgraded,
		r.GoldEarned, r.Matches, r.LongestCascade, r.SwapsMade, r.Outcome, r.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty mode
// matches every mode.
func (s *Store) RecentRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, seed, score, days, waves_completed, enemies_killed, towers_built, towers_upgraded,
		        gold_earned, matches, longest_cascade, swaps_made, outcome, duration_secs, created_at
		 FROM runs
		 WHERE ? = '' OR mode = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Mode, &r.Seed, &r.Score, &r.Days, &r.WavesCompleted, &r.EnemiesKilled,
			&r.TowersBuilt, &r.TowersUpgraded, &r.GoldEarned, &r.Matches, &r.LongestCascade,
			&r.SwapsMade, &r.Outcome, &r.DurationSecs, &createdAt,
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
