package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawEntry(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestTestDetail_CanonicalForm(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "name only",
			raw:      `{"name": "SettingsUnitTests"}`,
			expected: "SettingsUnitTests",
		},
		{
			name:     "empty options",
			raw:      `{"name": "SettingsUnitTests", "options": []}`,
			expected: "SettingsUnitTests",
		},
		{
			name:     "two options",
			raw:      `{"name": "X", "options": [{"a": "1"}, {"b": "2"}]}`,
			expected: "X (a: 1, b: 2)",
		},
		{
			name:     "options sorted by key",
			raw:      `{"name": "X", "options": [{"b": "2"}, {"a": "1"}]}`,
			expected: "X (a: 1, b: 2)",
		},
		{
			name: "instrumentation arg",
			raw: `{"name": "SettingsUnitTests", "options": [{"instrumentation-arg":
				"annotation=android.platform.test.annotations.Presubmit"}]}`,
			expected: "SettingsUnitTests (instrumentation-arg: annotation=android.platform.test.annotations.Presubmit)",
		},
		{
			name:     "non-string value",
			raw:      `{"name": "X", "options": [{"shard": 3}]}`,
			expected: "X (shard: 3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewTestDetail(rawEntry(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestTestDetail_Equality(t *testing.T) {
	a := MustTestDetail(rawEntry(t, `{"name": "X", "options": [{"a": "1"}, {"b": "2"}]}`))
	b := MustTestDetail(rawEntry(t, `{"name": "X", "options": [{"b": "2"}, {"a": "1"}]}`))
	c := MustTestDetail(rawEntry(t, `{"name": "X", "options": [{"a": "1"}]}`))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))

	set := map[string]TestDetail{a.Key(): a}
	_, ok := set[b.Key()]
	assert.True(t, ok)

	again := MustTestDetail(rawEntry(t, `{"name": "X", "options": [{"a": "1"}, {"b": "2"}]}`))
	assert.True(t, a.Equal(again))
}

func TestTestDetail_Malformed(t *testing.T) {
	t.Run("two keys in one option", func(t *testing.T) {
		_, err := NewTestDetail(rawEntry(t, `{"name": "X", "options": [{"a": "1", "b": "2"}]}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOptionMalformed)
	})

	t.Run("empty option", func(t *testing.T) {
		_, err := NewTestDetail(rawEntry(t, `{"name": "X", "options": [{}]}`))
		assert.ErrorIs(t, err, ErrOptionMalformed)
	})

	t.Run("option that is not a mapping", func(t *testing.T) {
		_, err := NewTestDetail(rawEntry(t, `{"name": "X", "options": ["a"]}`))
		assert.ErrorIs(t, err, ErrOptionMalformed)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := NewTestDetail(rawEntry(t, `{"options": []}`))
		assert.Error(t, err)
	})
}

func TestParseCanonical_RoundTrip(t *testing.T) {
	raws := []string{
		`{"name": "SettingsUnitTests"}`,
		`{"name": "X", "options": [{"b": "2"}, {"a": "1"}]}`,
		`{"name": "CtsMediaTestCases", "options": [{"include-filter": "android.media.cts.AudioTrackTest"}, {"exclude-annotation": "androidx.test.filters.FlakyTest"}]}`,
	}
	for _, raw := range raws {
		d := MustTestDetail(rawEntry(t, raw))
		name, options, err := ParseCanonical(d.String())
		require.NoError(t, err)
		assert.Equal(t, d.Name(), name)
		if len(d.Options()) == 0 {
			assert.Empty(t, options)
		} else {
			assert.Equal(t, d.Options(), options)
		}
	}

	_, _, err := ParseCanonical("X (broken")
	assert.Error(t, err)
	_, _, err = ParseCanonical("")
	assert.Error(t, err)
}
