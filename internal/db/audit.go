package db

func (s *pgStore) WriteAudit(userID int, action, entity, entityID string) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (user_id, action, entity, entity_id, created_at)
		VALUES ($1, $2, $3, $4, now())
		`, userID, action, entity, entityID)
	return err
}
