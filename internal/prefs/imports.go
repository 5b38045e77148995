package prefs

import (
	"fmt"
	"time"
)

// Import records one feed item that was published as an article.
type Import struct {
	Feed       string
	GUID       string
	ArticleID  string
	Lang       string
	ImportedAt time.Time
}

func (s *Store) RecordImports(records []Import) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO imports (guid, feed, article_id, lang, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(feed, guid) DO UPDATE SET
			article_id = excluded.article_id,
			imported_at = excluded.imported_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.GUID, r.Feed, r.ArticleID, r.Lang, r.ImportedAt); err != nil {
			return fmt.Errorf("recording import %s: %w", r.GUID, err)
		}
	}
	return tx.Commit()
}

// ImportedGUIDs returns the item GUIDs of feed already imported in lang.
func (s *Store) ImportedGUIDs(feed, lang string) (map[string]bool, error) {
	rows, err := s.readDB.Query("SELECT guid FROM imports WHERE feed = ? AND lang = ?", feed, lang)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		seen[guid] = true
	}
	return seen, rows.Err()
}
