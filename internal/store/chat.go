package store

// ListChats returns all chats sorted by last message time descending,
// chats without history last. The preview columns are computed the way
// the production backend computes them, via correlated subqueries.
func (db *DB) ListChats() ([]ChatRecord, error) {
	rows, err := db.Query(`
		SELECT c.id, c.name, c.chat_type,
			(SELECT m.content FROM messages m WHERE m.chat_id = c.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message,
			(SELECT m.created_at FROM messages m WHERE m.chat_id = c.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message_time,
			c.unread_count,
			u.full_name, u.status
		FROM chats c
		LEFT JOIN users u ON u.id = c.counterpart_id
		ORDER BY last_message_time IS NULL, last_message_time DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []ChatRecord
	for rows.Next() {
		var c ChatRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.ChatType, &c.LastMessage, &c.LastMessageAt, &c.Unread, &c.CounterpartName, &c.CounterpartStatus); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// ChatExists reports whether a chat with the given id is present.
func (db *DB) ChatExists(id int64) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chats WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
