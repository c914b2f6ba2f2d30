package server

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAuditLog_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	audit, err := NewFileAuditLog(path, discardLogger())
	require.NoError(t, err)

	require.NoError(t, audit.LogHand(HandRecord{TableID: "t1", HandID: "h1", Seed: "aa", Secret: "bb", Commitment: "cc"}))
	require.NoError(t, audit.LogHand(HandRecord{TableID: "t1", HandID: "h2", Seed: "dd", Secret: "ee", Commitment: "ff"}))
	require.NoError(t, audit.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first HandRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "h1", first.HandID)

	var second HandRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "h2", second.HandID)
}

func TestFileAuditLog_AppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	first, err := NewFileAuditLog(path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, first.LogHand(HandRecord{HandID: "h1"}))
	require.NoError(t, first.Close())

	second, err := NewFileAuditLog(path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, second.LogHand(HandRecord{HandID: "h2"}))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hand_id":"h1"`)
	assert.Contains(t, string(data), `"hand_id":"h2"`)
}
