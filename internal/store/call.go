package store

// ListCalls returns call history ordered by start time descending,
// most recent 50. The chat name falls back to the counterpart's name
// for direct chats, the same resolution the chat listing applies.
func (db *DB) ListCalls() ([]CallRecord, error) {
	rows, err := db.Query(`
		SELECT cl.id, cl.chat_id, cl.call_type, cl.status, cl.started_at, cl.ended_at, cl.duration,
			iu.full_name,
			COALESCE(NULLIF(c.name, ''), cu.full_name)
		FROM calls cl
		JOIN users iu ON iu.id = cl.initiator_id
		LEFT JOIN chats c ON c.id = cl.chat_id
		LEFT JOIN users cu ON cu.id = c.counterpart_id
		ORDER BY cl.started_at DESC
		LIMIT 50`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var calls []CallRecord
	for rows.Next() {
		var c CallRecord
		if err := rows.Scan(&c.ID, &c.ChatID, &c.Type, &c.Status, &c.StartedAt, &c.EndedAt, &c.Duration, &c.InitiatorName, &c.ChatName); err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// InsertCall records a call start and returns its id and start
// timestamp. The client never calls this; it exists for parity with
// the production backend's POST /calls.
func (db *DB) InsertCall(chatID, initiatorID int64, callType string) (int64, string, error) {
	var (
		id        int64
		startedAt string
	)
	err := db.QueryRow(`
		INSERT INTO calls (chat_id, initiator_id, call_type, status)
		VALUES (?, ?, ?, 'completed')
		RETURNING id, started_at`,
		chatID, initiatorID, callType).
		Scan(&id, &startedAt)
	if err != nil {
		return 0, "", err
	}
	return id, startedAt, nil
}
