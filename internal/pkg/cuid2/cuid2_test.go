package cuid2

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestEncodeTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int64
		expected string
	}{
		{"Zero timestamp", 0, "000000"},
		{"One second", 1, "000001"},
		{"62 seconds", 62, "000010"},
		{"One minute", 60, "00000y"},
		{"One hour", 3600, "0000w4"},
		{"One day", 86400, "000MTY"},
		{"Unix epoch test", 1704067200, "1rK5iq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := encodeTimestamp(tt.seconds)
			if result != tt.expected {
				t.Errorf("encodeTimestamp(%d) = %s, want %s", tt.seconds, result, tt.expected)
			}
		})
	}

	result := encodeTimestamp(1234567890)
	for _, c := range result {
		if !strings.ContainsRune(base62Alphabet, c) {
			t.Errorf("Result contains non-base62 character: %c in %s", c, result)
		}
	}
}

func TestGenerateCuidLikeId(t *testing.T) {
	length := 24
	id := generateCuidLikeId(length)

	if len(id) != length {
		t.Errorf("Generated ID length = %d, want %d", len(id), length)
	}

	for _, c := range id {
		if !strings.ContainsRune(base62Alphabet, c) {
			t.Errorf("ID contains non-base62 character: %c in %s", c, id)
		}
	}

	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := generateCuidLikeId(length)
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewFormat(t *testing.T) {
	id := New("var")

	if len(id) != 28 {
		t.Errorf("ID length incorrect: got %d, want 28", len(id))
	}

	if !strings.HasPrefix(id, "var_") {
		t.Errorf("ID doesn't have correct prefix: %s", id)
	}

	matched, _ := regexp.MatchString(`^var_[0-9A-Za-z]{24}$`, id)
	if !matched {
		t.Errorf("ID format doesn't match expected pattern: %s", id)
	}
}

func TestNewUniqueness(t *testing.T) {
	ids := make(map[string]bool)
	prefixes := []string{"var", "lnk", "ses"}

	for i := 0; i < 10000; i++ {
		for _, prefix := range prefixes {
			id := New(prefix)
			if ids[id] {
				t.Errorf("Generated duplicate ID: %s", id)
			}
			ids[id] = true
		}
	}
}

func TestTimeSortability(t *testing.T) {
	id1 := New("test")
	time.Sleep(10 * time.Millisecond)
	id2 := New("test")
	time.Sleep(10 * time.Millisecond)
	id3 := New("test")

	extractTimestamp := func(id string) string {
		parts := strings.Split(id, "_")
		if len(parts) != 2 {
			return ""
		}
		return parts[1][:6]
	}

	timestamp1 := extractTimestamp(id1)
	timestamp2 := extractTimestamp(id2)
	timestamp3 := extractTimestamp(id3)

	if timestamp1 > timestamp2 {
		t.Errorf("Timestamps not sorted: %s > %s", timestamp1, timestamp2)
	}
	if timestamp2 > timestamp3 {
		t.Errorf("Timestamps not sorted: %s > %s", timestamp2, timestamp3)
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{NewVariantID(), "var_"},
		{NewLinkID(), "lnk_"},
		{NewSessionID(), "ses_"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.id, tt.prefix) {
			t.Errorf("ID %s doesn't start with expected prefix %s", tt.id, tt.prefix)
		}

		randomPart := strings.TrimPrefix(tt.id, tt.prefix)
		for _, c := range randomPart {
			if !strings.ContainsRune(base62Alphabet, c) {
				t.Errorf("ID %s contains non-base62 character: %c", tt.id, c)
			}
		}
	}
}
