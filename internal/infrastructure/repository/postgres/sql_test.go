package postgres

import (
	"testing"
	"time"

	qb "github.com/vivandoshi08/cheesycareApp/internal/platform/querybuilder"
)

func TestNullStringRoundTrip(t *testing.T) {
	if got := nullStringPtr(nullString(nil)); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}

	value := "qm12"
	got := nullStringPtr(nullString(&value))
	if got == nil || *got != value {
		t.Fatalf("expected %q, got %v", value, got)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if got := nullTime(nullTimeValue(nil)); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}

	value := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got := nullTime(nullTimeValue(&value))
	if got == nil || !got.Equal(value) {
		t.Fatalf("expected %v, got %v", value, got)
	}
}

func TestActiveEventKeysQueryShape(t *testing.T) {
	query, args, err := qb.Select("DISTINCT event_key").From("teams").
		Where(
			qb.Expr("next_match_time IS NOT NULL"),
			qb.Expr("event_key IS NOT NULL"),
		).
		OrderBy("event_key").
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "SELECT DISTINCT event_key FROM teams WHERE next_match_time IS NOT NULL AND event_key IS NOT NULL ORDER BY event_key"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestUpdateProjectionQueryShape(t *testing.T) {
	query, args, err := qb.Update("teams").
		Set("event_key", "2025casj").
		Set("next_match", "qm2").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("number", "254")).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "UPDATE teams SET event_key = $1, next_match = $2, updated_at = NOW() WHERE number = $3"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 3 || args[2] != "254" {
		t.Fatalf("args = %v", args)
	}
}
