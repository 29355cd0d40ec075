package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shakker/internal/modules/alarm/domain"
	alarmout "shakker/internal/modules/alarm/port/out"
	apperrors "shakker/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteAlarmStore struct {
	db *sql.DB
}

var _ alarmout.AlarmStore = (*SQLiteAlarmStore)(nil)

func NewSQLiteAlarmStore(dbPath string) (*SQLiteAlarmStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Serialized writes keep per-id operations from interleaving at the
	// driver level.
	db.SetMaxOpenConns(1)
	store := &SQLiteAlarmStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteAlarmStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteAlarmStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS alarms (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fire_at_ms INTEGER NOT NULL,
  message TEXT NOT NULL,
  enabled INTEGER NOT NULL,
  repeat_days TEXT NOT NULL DEFAULT '',
  challenge TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create alarms table: %w", err)
	}
	return nil
}

func (s *SQLiteAlarmStore) Create(ctx context.Context, alarm domain.Alarm) (int64, error) {
	const stmt = `
INSERT INTO alarms (fire_at_ms, message, enabled, repeat_days, challenge)
VALUES (?, ?, ?, ?, ?);
`
	res, err := s.db.ExecContext(ctx, stmt,
		alarm.FireAt,
		alarm.Message,
		boolToInt(alarm.Enabled),
		alarm.Days.Encode(),
		string(alarm.Challenge),
	)
	if err != nil {
		return 0, fmt.Errorf("insert alarm: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("alarm id: %w", err)
	}
	return id, nil
}

func (s *SQLiteAlarmStore) Update(ctx context.Context, alarm domain.Alarm) error {
	const stmt = `
UPDATE alarms
SET fire_at_ms = ?, message = ?, enabled = ?, repeat_days = ?, challenge = ?
WHERE id = ?;
`
	res, err := s.db.ExecContext(ctx, stmt,
		alarm.FireAt,
		alarm.Message,
		boolToInt(alarm.Enabled),
		alarm.Days.Encode(),
		string(alarm.Challenge),
		alarm.ID,
	)
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLiteAlarmStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	return nil
}

func (s *SQLiteAlarmStore) List(ctx context.Context) ([]domain.Alarm, error) {
	const query = `
SELECT id, fire_at_ms, message, enabled, repeat_days, challenge
FROM alarms
ORDER BY fire_at_ms ASC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var alarms []domain.Alarm
	for rows.Next() {
		alarm, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, alarm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	return alarms, nil
}

func (s *SQLiteAlarmStore) GetByID(ctx context.Context, id int64) (domain.Alarm, error) {
	const query = `
SELECT id, fire_at_ms, message, enabled, repeat_days, challenge
FROM alarms
WHERE id = ?;
`
	row := s.db.QueryRowContext(ctx, query, id)
	alarm, err := scanAlarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Alarm{}, apperrors.ErrNotFound
	}
	return alarm, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlarm(row rowScanner) (domain.Alarm, error) {
	var (
		alarm   domain.Alarm
		enabled int
		days    string
		kind    string
	)
	if err := row.Scan(&alarm.ID, &alarm.FireAt, &alarm.Message, &enabled, &days, &kind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Alarm{}, err
		}
		return domain.Alarm{}, fmt.Errorf("scan alarm: %w", err)
	}
	alarm.Enabled = enabled != 0
	alarm.Days = domain.ParseDaySet(days)
	alarm.Challenge = domain.NormalizeChallenge(kind)
	return alarm, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
