package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123E4567-E89B-42D3-A456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"not-a-uuid",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestParseUSDate(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"03/14/2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"3/4/2024", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{" 12/01/2023 ", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-14", time.Time{}, false},
		{"13/01/2024", time.Time{}, false},
	}
	for _, c := range cases {
		got, ok := ParseUSDate(c.input)
		if ok != c.ok || !got.Equal(c.want) {
			t.Errorf("ParseUSDate(%q) = %v, %v; want %v, %v", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestISOWeekday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)
	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("ISOWeekday(sunday) = %d, want 7", got)
	}
	if got := ISOWeekday(monday); got != 1 {
		t.Errorf("ISOWeekday(monday) = %d, want 1", got)
	}
}

func TestValidationErrors_ToMapKeepsFirst(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "date", Message: "date must be YYYY-MM-DD"},
	}
	m := errs.ToMap()
	if m["date"] != "date is required" {
		t.Errorf("ToMap()[date] = %q", m["date"])
	}
	if errs.First() != "date: date is required" {
		t.Errorf("First() = %q", errs.First())
	}
}
