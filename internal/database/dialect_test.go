package database

import "testing"

func TestNumberPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT id FROM users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "single placeholder",
			query: "SELECT id FROM users WHERE email = ?",
			want:  "SELECT id FROM users WHERE email = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO riddles (question, answer, hint) VALUES (?, ?, ?)",
			want:  "INSERT INTO riddles (question, answer, hint) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := numberPlaceholders(tt.query); got != tt.want {
				t.Errorf("numberPlaceholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectRewrite(t *testing.T) {
	query := "SELECT 1 WHERE a = ? AND b = ?"

	if got := (SQLiteDialect{}).Rewrite(query); got != query {
		t.Errorf("sqlite rewrite changed the query: %q", got)
	}
	if got := (MySQLDialect{}).Rewrite(query); got != query {
		t.Errorf("mysql rewrite changed the query: %q", got)
	}
	want := "SELECT 1 WHERE a = $1 AND b = $2"
	if got := (PostgresDialect{}).Rewrite(query); got != want {
		t.Errorf("postgres rewrite = %q, want %q", got, want)
	}
}

func TestOpenRejectsUnknownEngine(t *testing.T) {
	if _, err := Open("oracle", "", ""); err == nil {
		t.Fatal("Open() accepted an unknown engine")
	}
}
