package temporal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLoggerAdapter(zap.New(core))

	adapter.Info("Started workflow", "WorkflowID", "ingest-collection-apes", "Attempt", 2)
	adapter.Error("Activity failed", "Error", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)

	info := entries[0].ContextMap()
	assert.Equal(t, "temporal", info["component"])
	assert.Equal(t, "ingest-collection-apes", info["WorkflowID"])
	assert.EqualValues(t, 2, info["Attempt"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["Error"])
}

func TestZapLoggerAdapter_With(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLoggerAdapter(zap.New(core))

	withLogger, ok := adapter.(log.WithLogger)
	require.True(t, ok)
	withLogger.With("Namespace", "valuation").Warn("Poller retrying")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "valuation", logs.All()[0].ContextMap()["Namespace"])
}

func TestKeyvalFields(t *testing.T) {
	tests := []struct {
		name    string
		keyvals []interface{}
		want    map[string]interface{}
	}{
		{"pairs", []interface{}{"a", 1, "b", "two"}, map[string]interface{}{"a": int64(1), "b": "two"}},
		{"trailing key", []interface{}{"a", 1, "orphan"}, map[string]interface{}{"a": int64(1), "orphan": nil}},
		{"non string key", []interface{}{42, "answer"}, map[string]interface{}{"42": "answer"}},
		{"empty", nil, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := zapcore.NewMapObjectEncoder()
			for _, f := range keyvalFields(tt.keyvals) {
				f.AddTo(enc)
			}
			assert.Equal(t, tt.want, enc.Fields)
		})
	}
}
