package security

import "testing"

func TestSanitize_PlainTextPassesThrough(t *testing.T) {
	s := NewMessageSanitizer()

	got := s.Sanitize("ご飯食べた？")
	if got != "ご飯食べた？" {
		t.Errorf("Sanitize() = %q, want %q", got, "ご飯食べた？")
	}
}

func TestSanitize_StripsHTMLTags(t *testing.T) {
	s := NewMessageSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script tag removed entirely", "<script>alert('xss')</script>", ""},
		{"tags stripped, text kept", "ご飯<b>食べて</b>ね", "ご飯食べてね"},
		{"anchor stripped", `<a href="https://evil.example">click</a>`, "click"},
		{"img removed", `<img src="x" onerror="alert(1)">`, ""},
		{"nested tags", "<div><p>hello</p></div>", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_UnescapesEntities(t *testing.T) {
	s := NewMessageSanitizer()

	// bluemondayがエスケープしたエンティティはデコードして生テキストで返す
	got := s.Sanitize("A &amp; B")
	if got != "A & B" {
		t.Errorf("Sanitize() = %q, want %q", got, "A & B")
	}
}

func TestSanitize_TrimsWhitespace(t *testing.T) {
	s := NewMessageSanitizer()

	got := s.Sanitize("  hello  ")
	if got != "hello" {
		t.Errorf("Sanitize() = %q, want %q", got, "hello")
	}
}

func TestSanitize_EmptyInput_ReturnsEmpty(t *testing.T) {
	s := NewMessageSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewMessageSanitizer()

	input := "ご飯<b>食べて</b>ね"
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize is not idempotent: %q vs %q", once, twice)
	}
}
