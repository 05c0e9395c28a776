// Package db stores statistics bag snapshots, one per query execution, in
// SQLite.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/stats"
)

// Snapshot is one stored statistics bag with its query id and capture time.
type Snapshot struct {
	ID   string
	Time time.Time
	Bag  stats.Bag
}

func OpenDB(fileName string) (*sql.DB, error) {
	params := url.Values{
		"_journal_mode": []string{"WAL"},
		"_synchronous":  []string{"NORMAL"},
		"cache":         []string{"shared"},
		"_busy_timeout": []string{"5000"},
		"_txlock":       []string{"immediate"},
	}
	dataSourceName := fmt.Sprintf("file:%s?%s", fileName, params.Encode())
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Create schema if not exists
	createTableQuery := `
CREATE TABLE IF NOT EXISTS snapshots (
	id VARCHAR NOT NULL,
	time DATETIME default CURRENT_TIMESTAMP,
	data JSONB
);
CREATE INDEX IF NOT EXISTS snapshots_time ON snapshots(time);
CREATE INDEX IF NOT EXISTS snapshots_id_time ON snapshots(id, time);
`
	_, err = db.Exec(createTableQuery)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}

func SaveSnapshot(db *sql.DB, id string, bag stats.Bag, t time.Time) error {
	dataJSON, err := json.Marshal(bag)
	if err != nil {
		return err
	}

	query := `INSERT INTO snapshots (id, data, time) VALUES (?, ?, ?)`
	_, err = db.Exec(query, id, dataJSON, t.Format(consts.DateTimeFormat))
	return err
}

// LatestSnapshot returns the most recent snapshot for a query id, or nil
// when none exists.
func LatestSnapshot(db *sql.DB, id string) (*Snapshot, error) {
	query := `SELECT time, data FROM snapshots WHERE id = ? ORDER BY time DESC LIMIT 1`
	var t time.Time
	var data string
	err := db.QueryRow(query, id).Scan(&t, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	var bag stats.Bag
	if err := json.Unmarshal([]byte(data), &bag); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot %s: %w", id, err)
	}
	return &Snapshot{ID: id, Time: t, Bag: bag}, nil
}

// ListSnapshots returns the latest snapshot of every query id, ordered by id.
func ListSnapshots(db *sql.DB) ([]Snapshot, error) {
	query := `
SELECT s1.id, s1.time, s1.data
FROM snapshots s1
INNER JOIN (
    SELECT id, MAX(time) as max_time
    FROM snapshots
    GROUP BY id
) s2 ON s1.id = s2.id AND s1.time = s2.max_time
ORDER BY s1.id;`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var id string
		var t time.Time
		var data string
		if err := rows.Scan(&id, &t, &data); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var bag stats.Bag
		if err := json.Unmarshal([]byte(data), &bag); err != nil {
			log.Printf("Warning: skipping malformed snapshot %s: %v", id, err)
			continue
		}
		snapshots = append(snapshots, Snapshot{ID: id, Time: t, Bag: bag})
	}
	return snapshots, rows.Err()
}

func PurgeOldEntries(db *sql.DB) error {
	query := `DELETE FROM snapshots WHERE time < ?`
	cutoff := time.Now().AddDate(0, 0, -consts.PurgeRetentionDays)
	cnt, err := db.Exec(query, cutoff.Format(consts.DateTimeFormat))
	if err != nil {
		return err
	}
	deleted, _ := cnt.RowsAffected()
	log.Printf("Deleted %d old snapshots\n", deleted)
	return nil
}
