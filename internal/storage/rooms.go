package storage

import (
	"fmt"

	"github.com/vovakirdan/kitty-madness/internal/multiplayer"
)

// SaveRoom implements multiplayer.Persister.
// Inserts the room or updates its host and status.
func (s *Store) SaveRoom(info multiplayer.RoomInfo) error {
	_, err := s.db.Exec(
		`INSERT INTO rooms (id, code, name, host_id, status, max_players, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			host_id = excluded.host_id,
			status = excluded.status`,
		info.ID, info.Code, info.Name, info.HostID, string(info.Status), info.MaxPlayers, info.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save room: %w", err)
	}
	return nil
}

// DeleteRoom implements multiplayer.Persister.
// Membership goes with the room; chat history is kept.
func (s *Store) DeleteRoom(roomID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM room_players WHERE room_id = ?", roomID); err != nil {
		return fmt.Errorf("storage: cannot delete room players: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM rooms WHERE id = ?", roomID); err != nil {
		return fmt.Errorf("storage: cannot delete room: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit room delete: %w", err)
	}
	return nil
}

// SaveMember implements multiplayer.Persister.
func (s *Store) SaveMember(roomID string, m multiplayer.Member) error {
	_, err := s.db.Exec(
		`INSERT INTO room_players (room_id, player_id, player_name, fish_collected, ready, online, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(room_id, player_id) DO UPDATE SET
			player_name = excluded.player_name,
			fish_collected = excluded.fish_collected,
			ready = excluded.ready,
			online = excluded.online`,
		roomID, m.PlayerID, m.Name, m.FishCollected, m.Ready, m.Online, m.JoinedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save room player: %w", err)
	}
	return nil
}

// DeleteMember implements multiplayer.Persister.
func (s *Store) DeleteMember(roomID, playerID string) error {
	_, err := s.db.Exec("DELETE FROM room_players WHERE room_id = ? AND player_id = ?", roomID, playerID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete room player: %w", err)
	}
	return nil
}

// SaveMessage implements multiplayer.Persister.
func (s *Store) SaveMessage(msg multiplayer.ChatMessage) error {
	_, err := s.db.Exec(
		`INSERT INTO chat_messages (id, room_id, player_id, player_name, message, message_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.RoomID, msg.PlayerID, msg.PlayerName, msg.Text, string(msg.Type), msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save chat message: %w", err)
	}
	return nil
}

// Ensure Store implements Persister
var _ multiplayer.Persister = (*Store)(nil)

// RoomByCode returns a stored room, or nil if none has the code.
func (s *Store) RoomByCode(code string) (*multiplayer.RoomSnapshot, error) {
	var snap multiplayer.RoomSnapshot
	var status string
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, code, name, host_id, status, max_players, created_at
		 FROM rooms WHERE code = ?`,
		code,
	).Scan(&snap.ID, &snap.Code, &snap.Name, &snap.HostID, &status, &snap.MaxPlayers, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: cannot query room: %w", err)
	}
	snap.Status = multiplayer.RoomStatus(status)
	snap.CreatedAt = parseTime(createdAt)

	rows, err := s.db.Query(
		`SELECT player_id, player_name, fish_collected, ready, online, joined_at
		 FROM room_players WHERE room_id = ?
		 ORDER BY joined_at ASC, player_id ASC`,
		snap.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query room players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m multiplayer.Member
		var joinedAt any
		if err := rows.Scan(&m.PlayerID, &m.Name, &m.FishCollected, &m.Ready, &m.Online, &joinedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.JoinedAt = parseTime(joinedAt)
		snap.Members = append(snap.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	snap.Players = len(snap.Members)
	return &snap, nil
}

// ChatHistory returns the newest messages of a room, oldest first.
func (s *Store) ChatHistory(roomID string, limit int) ([]multiplayer.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, room_id, player_id, player_name, message, message_type, created_at FROM (
			SELECT rowid AS seq, * FROM chat_messages
			WHERE room_id = ?
			ORDER BY created_at DESC, seq DESC
			LIMIT ?
		 ) ORDER BY created_at ASC, seq ASC`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query chat: %w", err)
	}
	defer rows.Close()

	var msgs []multiplayer.ChatMessage
	for rows.Next() {
		var m multiplayer.ChatMessage
		var kind string
		var createdAt any
		if err := rows.Scan(&m.ID, &m.RoomID, &m.PlayerID, &m.PlayerName, &m.Text, &kind, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.Type = multiplayer.MessageType(kind)
		m.CreatedAt = parseTime(createdAt)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return msgs, nil
}
