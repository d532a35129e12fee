package contract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, CompliantValue},
		{59.9, CompliantValue},
		{60, WarningValue},
		{79.9, WarningValue},
		{80, IsolateValue},
		{99.9, IsolateValue},
		{100, ReorganizeValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainLabel(tt.score), "score %.1f", tt.score)
	}
}

func TestGetColorLabelContainsText(t *testing.T) {
	for _, score := range []float64{10, 65, 85, 110} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score))
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "YES"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "false", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.NotNil(t, f)

	path := filepath.Join(t.TempDir(), "out.json")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.NoError(t, f.Close())
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "libpolycall", TruncateName("libpolycall", 15))
	assert.Equal(t, "a-very-long-...", TruncateName("a-very-long-repository-name", 15))
	// Widths of 3 or less never truncate
	assert.Equal(t, "abcdef", TruncateName("abcdef", 3))
}

func TestDBFilePaths(t *testing.T) {
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
	assert.Contains(t, GetCacheDBFilePath(), ".sinphase_cache.db")
	assert.Contains(t, GetHistoryDBFilePath(), ".sinphase_history.db")
}
