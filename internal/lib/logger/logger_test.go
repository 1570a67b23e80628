package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		debug     bool
		jsonLines bool
	}{
		{name: "local", env: EnvLocal, debug: true, jsonLines: false},
		{name: "dev", env: EnvDev, debug: true, jsonLines: true},
		{name: "prod", env: EnvProd, debug: false, jsonLines: true},
		{name: "unknown falls back to local", env: "staging", debug: true, jsonLines: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.env, &buf)

			assert.Equal(t, tt.debug, log.Enabled(context.Background(), slog.LevelDebug))

			log.Info("hello", slog.String("k", "v"))
			if tt.jsonLines {
				var line map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
				assert.Equal(t, "hello", line["msg"])
				assert.Equal(t, "v", line["k"])
			} else {
				assert.Contains(t, buf.String(), "msg=hello")
				assert.Contains(t, buf.String(), "k=v")
			}
		})
	}
}
