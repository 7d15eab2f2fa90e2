package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	guide := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(guide, []byte("# Guide\n\nHello."), 0o644))

	cases := []struct {
		name     string
		path     string
		wantErr  bool
		contains []string
	}{
		{
			name: "valid file renders a full page",
			path: guide,
			contains: []string{
				"<title>ATP™ Documentation - guide.md</title>",
				"<p>Hello.</p>",
				`<div class="nav">`,
			},
		},
		{
			name:    "missing file fails",
			path:    filepath.Join(dir, "missing.md"),
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewRenderCommand()
			var out, errOut bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{tc.path})

			err := cmd.Execute()
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out.String(), "<!DOCTYPE html>"))
			for _, want := range tc.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}
