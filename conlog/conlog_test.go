// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDPrintf(t *testing.T) {
	var buf bytes.Buffer
	old := Logger()
	defer SetLogger(old)
	defer SetDeveloper(false)
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	DPrintf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("DPrintf without developer wrote %q", buf.String())
	}
	SetDeveloper(true)
	DPrintf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("DPrintf with developer wrote %q, want it to contain %q", buf.String(), "shown 2")
	}
}

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	old := Logger()
	defer SetLogger(old)
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Printf("crushed %v", "actor")
	if !strings.Contains(buf.String(), "crushed actor") {
		t.Errorf("Printf wrote %q", buf.String())
	}
}
