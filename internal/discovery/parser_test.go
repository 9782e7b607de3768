package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParser_FindTestCases(t *testing.T) {
	parser := NewParser()

	// Create a temporary PHP test file
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "UserTest.php")
	phpContent := `<?php

class UserTest extends TestCase
{
    public function testCreateUser()
    {
        // test code
    }

    protected function testUpdateUser()
    {
        // test code
    }

    private function testDeleteUser()
    {
        // test code
    }

    /**
     * @test
     */
    public function testWithAnnotation()
    {
        // test code
    }

    #[Test]
    public function itUsesAttributes()
    {
        // test code
    }

    public function helperMethod()
    {
        // not a test
    }
}
`
	if err := os.WriteFile(testFile, []byte(phpContent), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	t.Run("finds test methods", func(t *testing.T) {
		testCases, err := parser.FindTestCases(testFile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(testCases) != 5 {
			t.Errorf("expected 5 test cases, got %d: %v", len(testCases), testCases)
		}

		// Check for specific test methods
		found := make(map[string]bool)
		for _, tc := range testCases {
			found[tc] = true
		}

		expectedTests := []string{"testCreateUser", "testUpdateUser", "testDeleteUser", "testWithAnnotation", "itUsesAttributes"}
		for _, expected := range expectedTests {
			if !found[expected] {
				t.Errorf("expected to find test case %s", expected)
			}
		}

		// Should not find helperMethod
		if found["helperMethod"] {
			t.Error("should not find helperMethod as a test case")
		}
	})

	t.Run("reports missing methods", func(t *testing.T) {
		missing, err := parser.MissingTestCases(testFile, []string{"testCreateUser", "testNope"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(missing) != 1 || missing[0] != "testNope" {
			t.Errorf("expected [testNope], got %v", missing)
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := parser.FindTestCases("/non/existent/file.php")
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})
}

