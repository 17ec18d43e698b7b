package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l := NewIsolatedLogger(path)

	l.Info("FeeGenerator", "fee generated", map[string]interface{}{"fee_id": "abc"})
	l.Debug("FeeGenerator", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "fee generated", lines[0]["message"])
	assert.Equal(t, "FeeGenerator", lines[0]["module"])
	details := lines[0]["details"].(map[string]interface{})
	assert.Equal(t, "abc", details["fee_id"])
}

func TestNopLogger_AcceptsNilDetails(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("X", "boom", nil)
		l.Warn("X", "warn", map[string]interface{}{"error": "e"})
	})
	assert.NoError(t, l.Sync())
}
