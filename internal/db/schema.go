package db

const schema = `
CREATE TABLE IF NOT EXISTS debates (
    id           TEXT PRIMARY KEY,
    topic        TEXT NOT NULL,
    user_context TEXT DEFAULT '',
    user_profile TEXT DEFAULT '',
    phase        TEXT NOT NULL CHECK(phase IN ('opening','debate','synthesis','concluded')),
    verdict      TEXT DEFAULT '',
    created_at   DATETIME DEFAULT (datetime('now')),
    updated_at   DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_debates_created ON debates(created_at);
CREATE INDEX IF NOT EXISTS idx_debates_phase ON debates(phase);

CREATE TABLE IF NOT EXISTS debate_agents (
    debate_id    TEXT NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
    seat_id      TEXT NOT NULL CHECK(seat_id IN ('moderator','visionary','skeptic')),
    role         TEXT NOT NULL,
    display_name TEXT NOT NULL,
    avatar_tag   TEXT DEFAULT '',
    bio          TEXT DEFAULT '',
    model_id     TEXT NOT NULL,
    PRIMARY KEY (debate_id, seat_id)
);

CREATE TABLE IF NOT EXISTS debate_messages (
    id         TEXT PRIMARY KEY,
    debate_id  TEXT NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    speaker_id TEXT NOT NULL,
    kind       TEXT NOT NULL CHECK(kind IN ('query','argument','rebuttal','synthesis','verdict')),
    content    TEXT NOT NULL,
    refs       TEXT DEFAULT '[]',
    created_at INTEGER NOT NULL,
    UNIQUE (debate_id, position)
);

CREATE INDEX IF NOT EXISTS idx_messages_debate ON debate_messages(debate_id);
`
