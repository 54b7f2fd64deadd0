/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger_test

import (
	"bytes"
	"os"
	"testing"

	"bennypowers.dev/netpat/internal/logger"
)

func TestDebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})

	logger.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("Debug wrote %q with verbose off", buf.String())
	}

	logger.SetVerbose(true)
	logger.Debug("shown %d", 2)
	if got, want := buf.String(), "debug: shown 2\n"; got != want {
		t.Errorf("Debug wrote %q, want %q", got, want)
	}

	buf.Reset()
	logger.Warn("careful")
	if got, want := buf.String(), "warning: careful\n"; got != want {
		t.Errorf("Warn wrote %q, want %q", got, want)
	}
}
