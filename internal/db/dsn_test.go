package db

import "testing"

func TestIsPostgresDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want bool
	}{
		{"postgres://user:pw@localhost:5432/montarreda", true},
		{"postgresql://localhost/montarreda", true},
		{"host=localhost user=app dbname=montarreda", true},
		{"montarreda.db", false},
		{"file:test?mode=memory&cache=shared", false},
		{"/var/lib/montarreda/data.db", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsPostgresDSN(c.dsn); got != c.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", c.dsn, got, c.want)
		}
	}
}

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  montarreda.db  ", "montarreda.db"},
		{`"montarreda.db"`, "montarreda.db"},
		{"postgres://u:p@h/db", "postgres://u:p@h/db"},
		{"host=localhost  user=app   dbname=montarreda", "host=localhost user=app dbname=montarreda sslmode=disable"},
		{"host=localhost dbname=montarreda sslmode=require", "host=localhost dbname=montarreda sslmode=require"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
