// CLAUDE:SUMMARY Debate session persistence — snapshot writes of the full transcript, read paths for history endpoints
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quorumlabs/council/internal/council"
	"github.com/quorumlabs/council/internal/persona"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// SaveSession writes a full snapshot of a debate session: the debate row
// is upserted, the seat roster and the message log are replaced. The log
// is append-only upstream, so replacing it is always a superset write.
func (db *DB) SaveSession(ctx context.Context, rec *council.SessionRecord) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning session write: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO debates (id, topic, user_context, user_profile, phase, verdict, created_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			phase = excluded.phase,
			verdict = excluded.verdict,
			updated_at = datetime('now')`,
		rec.ID, rec.Topic, rec.UserContext, rec.UserProfile, string(rec.Phase), rec.Verdict,
		rec.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("upserting debate %s: %w", rec.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM debate_agents WHERE debate_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clearing agents: %w", err)
	}
	for _, a := range rec.Agents {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO debate_agents (debate_id, seat_id, role, display_name, avatar_tag, bio, model_id)
			VALUES (?,?,?,?,?,?,?)`,
			rec.ID, a.SeatID, string(a.FunctionalRole), a.DisplayName, a.AvatarTag, a.Bio, a.CompletionModelID)
		if err != nil {
			return fmt.Errorf("inserting agent %s: %w", a.SeatID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM debate_messages WHERE debate_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}
	for i, m := range rec.Messages {
		refs, _ := json.Marshal(m.References)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO debate_messages (id, debate_id, position, speaker_id, kind, content, refs, created_at)
			VALUES (?,?,?,?,?,?,?,?)`,
			m.ID, rec.ID, i, m.SpeakerID, string(m.Kind), m.Content, string(refs), m.CreatedAtMillis)
		if err != nil {
			return fmt.Errorf("inserting message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetSession loads one persisted debate with its roster and full log.
func (db *DB) GetSession(ctx context.Context, id string) (*council.SessionRecord, error) {
	rec := &council.SessionRecord{ID: id}
	var phase, createdAt string
	err := db.QueryRowContext(ctx, `
		SELECT topic, user_context, user_profile, phase, verdict, created_at
		FROM debates WHERE id = ?`, id).
		Scan(&rec.Topic, &rec.UserContext, &rec.UserProfile, &phase, &rec.Verdict, &createdAt)
	if err == sql.ErrNoRows {
		return nil, council.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading debate %s: %w", id, err)
	}
	rec.Phase = council.Phase(phase)
	if t, err := time.Parse(sqliteTimeLayout, createdAt); err == nil {
		rec.CreatedAt = t.UTC()
	}

	rows, err := db.QueryContext(ctx, `
		SELECT seat_id, role, display_name, avatar_tag, bio, model_id
		FROM debate_agents WHERE debate_id = ?
		ORDER BY CASE seat_id WHEN 'moderator' THEN 0 WHEN 'visionary' THEN 1 ELSE 2 END`, id)
	if err != nil {
		return nil, fmt.Errorf("loading agents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a council.AgentConfig
		var role string
		if err := rows.Scan(&a.SeatID, &role, &a.DisplayName, &a.AvatarTag, &a.Bio, &a.CompletionModelID); err != nil {
			return nil, fmt.Errorf("scanning agent: %w", err)
		}
		a.FunctionalRole = persona.Role(role)
		rec.Agents = append(rec.Agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	msgs, err := db.sessionMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Messages = msgs
	return rec, nil
}

func (db *DB) sessionMessages(ctx context.Context, id string) ([]council.Message, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, speaker_id, kind, content, refs, created_at
		FROM debate_messages WHERE debate_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	var msgs []council.Message
	for rows.Next() {
		var m council.Message
		var kind, refs string
		if err := rows.Scan(&m.ID, &m.SpeakerID, &kind, &m.Content, &refs, &m.CreatedAtMillis); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Kind = council.MessageKind(kind)
		_ = json.Unmarshal([]byte(refs), &m.References)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ListSessions returns persisted debates newest first, without their
// logs. limit <= 0 means no limit.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]*council.SessionRecord, error) {
	q := `SELECT id, topic, phase, verdict, created_at FROM debates ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing debates: %w", err)
	}
	defer rows.Close()

	var out []*council.SessionRecord
	for rows.Next() {
		rec := &council.SessionRecord{}
		var phase, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Topic, &phase, &rec.Verdict, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning debate: %w", err)
		}
		rec.Phase = council.Phase(phase)
		if t, err := time.Parse(sqliteTimeLayout, createdAt); err == nil {
			rec.CreatedAt = t.UTC()
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
