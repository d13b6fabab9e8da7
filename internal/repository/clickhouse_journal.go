package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

// signalJournalSchema creates the cycle journal table. One row per scan
// cycle per symbol; indicator results are kept as a JSON blob since the
// set of evaluators changes more often than the table should.
var signalJournalSchema = []string{
	`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime64(3, 'UTC'),
		symbol LowCardinality(String),
		direction LowCardinality(String),
		total_score Int32,
		s_tier_hits Int32,
		action LowCardinality(String),
		should_send UInt8,
		reason String,
		data_source LowCardinality(String),
		ai_called UInt8,
		ai_reason String,
		results String
	) ENGINE = MergeTree()
	ORDER BY (symbol, ts)`,
}

// ClickHouseJournal implements SignalJournal on a ClickHouse table.
type ClickHouseJournal struct {
	db    *sql.DB
	table string
}

func NewClickHouseJournal(ctx context.Context, db *sql.DB, table string) (*ClickHouseJournal, error) {
	if table == "" {
		table = "bottomscan_cycles"
	}
	for _, stmt := range signalJournalSchema {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(stmt, table)); err != nil {
			return nil, fmt.Errorf("journal schema: %w", err)
		}
	}
	return &ClickHouseJournal{db: db, table: table}, nil
}

func (j *ClickHouseJournal) Append(ctx context.Context, res *models.ScanCycleResult) error {
	results, err := json.Marshal(res.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, direction, total_score, s_tier_hits, action, should_send, reason, data_source, ai_called, ai_reason, results) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		j.table)
	_, err = j.db.ExecContext(ctx, q,
		res.Timestamp.UTC(),
		res.Symbol,
		string(res.Summary.StrongestSignal),
		int32(res.Summary.TotalScore),
		int32(res.Summary.STierHits),
		string(res.Decision.Action),
		boolToUInt8(res.Decision.ShouldSend),
		res.Decision.Reason,
		res.DataSource,
		boolToUInt8(res.AICalled),
		res.AIReason,
		string(results),
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Close is a no-op: the *sql.DB pool is owned by the ClickHouse client.
func (j *ClickHouseJournal) Close() error {
	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

var _ repository.SignalJournal = (*ClickHouseJournal)(nil)
