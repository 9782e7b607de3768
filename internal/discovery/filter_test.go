package discovery

import (
	"testing"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		class    string
		expected bool
	}{
		{"exact match", "UserTest", "UserTest", true},
		{"exact mismatch", "UserTest", "UserServiceTest", false},
		{"no substring without wildcard", "User", "UserTest", false},
		{"suffix wildcard", "*UserTest", "AdminUserTest", true},
		{"substring wildcard", "*Payment*", "PaymentServiceTest", true},
		{"multiple wildcards", "*User*Test", "UserControllerTest", true},
		{"question mark", "User?Test", "UserXTest", true},
		{"only wildcards", "**", "UserTest", true},
		{"wildcard miss", "*NonExistent*", "UserTest", false},
		{"empty pattern", "", "UserTest", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchName(tt.pattern, tt.class); got != tt.expected {
				t.Errorf("MatchName(%q, %q) = %v, want %v", tt.pattern, tt.class, got, tt.expected)
			}
		})
	}
}

func TestFilterByName(t *testing.T) {
	files := []string{
		"/path/to/UserTest.php",
		"/path/to/PaymentTest.php",
		"/path/to/PaymentServiceTest.php",
		"/path/to/OrderTest.php",
	}

	tests := []struct {
		name     string
		pattern  string
		expected int
	}{
		{"empty pattern matches nothing", "", 0},
		{"exact class", "OrderTest", 1},
		{"wildcard substring", "*Payment*", 2},
		{"no matches", "*Invoice*", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterByName(files, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}
