package exec

import (
	"testing"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want domain.QueryIntent
	}{
		{"SELECT id, name FROM users", domain.IntentSelect},
		{"SELECT 1 UNION SELECT 2", domain.IntentSelect},
		{"INSERT INTO users (name) VALUES ('a')", domain.IntentInsert},
		{"INSERT INTO users (id, name) VALUES (1, 'a') ON DUPLICATE KEY UPDATE name = 'a'", domain.IntentUpsert},
		{"REPLACE INTO users (id, name) VALUES (1, 'a')", domain.IntentUpsert},
		{"UPDATE users SET name = 'b' WHERE id = 1", domain.IntentUpdate},
		{"DELETE FROM users WHERE id = 1", domain.IntentDelete},
		{"SHOW TABLES", domain.IntentShowTables},
		{"SHOW DATABASES", domain.IntentRaw},
		{"CREATE TABLE t (id INT)", domain.IntentRaw},
		{"not sql at all", domain.IntentRaw},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			if got := Classify(tt.sql); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.sql, got, tt.want)
			}
		})
	}
}
