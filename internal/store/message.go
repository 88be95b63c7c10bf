package store

// ListMessages returns the messages of a chat ordered by creation time
// ascending, each joined with its sender's display name.
func (db *DB) ListMessages(chatID int64) ([]MessageRecord, error) {
	rows, err := db.Query(`
		SELECT m.id, m.chat_id, m.sender_id, m.message_type, m.content, m.duration, m.created_at, u.full_name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = ?
		ORDER BY m.created_at ASC, m.id ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []MessageRecord
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Type, &m.Content, &m.Duration, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// InsertMessage appends a message and returns its id and server-side
// creation timestamp.
func (db *DB) InsertMessage(chatID, senderID int64, msgType, content string, duration *int) (int64, string, error) {
	var (
		id        int64
		createdAt string
	)
	err := db.QueryRow(`
		INSERT INTO messages (chat_id, sender_id, message_type, content, duration)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		chatID, senderID, msgType, content, duration).
		Scan(&id, &createdAt)
	if err != nil {
		return 0, "", err
	}
	return id, createdAt, nil
}
