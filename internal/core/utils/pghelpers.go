// Package utils converts between domain optionals and pgx column types.
package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToNullString converts an optional string to a pgtype.Text.
// A nil pointer is NULL; an empty string is stored as is.
func ToNullString(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{
		String: *s,
		Valid:  true,
	}
}

// FromNullString converts a pgtype.Text back to an optional string.
func FromNullString(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// ToTimestamptz converts an optional instant. A nil pointer is NULL.
func ToTimestamptz(ts *time.Time) pgtype.Timestamptz {
	if ts == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *ts, Valid: true}
}

// FromTimestamptz returns the instant in UTC, or nil for NULL.
func FromTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}

func ToInt4(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func FromInt4(n pgtype.Int4) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}
