package store

// LogDownload appends a download record. The log is append-only; nothing in
// the application updates or deletes rows.
func (s *Store) LogDownload(policyID, versionID int64, ipAddress, userAgent string) error {
	_, err := s.DB.Exec(`INSERT INTO download_logs (policy_id, version_id, ip_address, user_agent) VALUES (?, ?, ?, ?)`,
		policyID, versionID, ipAddress, userAgent)
	return err
}
