package store

import "database/sql"

// GetUser returns a user profile by id, or nil when absent.
func (db *DB) GetUser(id int64) (*UserRecord, error) {
	var u UserRecord
	err := db.QueryRow(`
		SELECT id, full_name, email, position, department, phone, bio, status
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Position, &u.Department, &u.Phone, &u.Bio, &u.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
