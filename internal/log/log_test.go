// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{Writer: &buf}

	e := &log.Entry{
		Level:     log.WarnLevel,
		Message:   "search failed",
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		Fields:    log.Fields{"page": 2, "error": "boom"},
	}
	require.NoError(t, h.HandleLog(e))

	assert.Equal(t, "2025-03-04 05:06:07 W search failed error=boom page=2\n", buf.String())
}

func TestInitLogger_Level(t *testing.T) {
	tests := []struct {
		env     string
		want    log.Level
		wantErr bool
	}{
		{env: "", want: log.ErrorLevel},
		{env: "debug", want: log.DebugLevel},
		{env: "INFO", want: log.InfoLevel},
		{env: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(LevelEnv, tt.env)
			t.Setenv(FileEnv, "")

			err := InitLogger()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			l, ok := log.Log.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.want, l.Level)
		})
	}
}

func TestInitLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reposearch.log")
	t.Setenv(LevelEnv, "debug")
	t.Setenv(FileEnv, path)
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, InitLogger())
	log.Debug("hello file")

	Silence()
	log.Debug("still to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), " D hello file\n")
	assert.Contains(t, string(data), " D still to file\n")
}

func TestInitLogger_BadFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, InitLogger())
}
