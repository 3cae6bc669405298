package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestComponentTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})

	l := Component("PostgresStore")
	l.Info().Str("advisor_id", "adv-1").Msg("ListCustomersByAdvisor called")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "PostgresStore", entry["component"])
	assert.Equal(t, "adv-1", entry["advisor_id"])
	assert.Equal(t, "info", entry["level"])

	buf.Reset()
	Init(Config{Level: "error", Output: &buf})
	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
}
