package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/hassan/minic/internal/scenario"
)

func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("../../testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)
			cases, err := scenario.Extract(content)
			be.Err(t, err, nil)

			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					runScenario(t, tc)
				})
			}
		})
	}
}

func runScenario(t *testing.T, tc scenario.Case) {
	path := filepath.Join(t.TempDir(), "prog.mc")
	be.Err(t, os.WriteFile(path, []byte(tc.Input), 0o644), nil)

	invoke := func(command string) (string, string) {
		var stdout, stderr bytes.Buffer
		Run(context.Background(), []string{"minic", "--color", "never", command, path}, &stdout, &stderr, "test")
		return stdout.String(), stderr.String()
	}

	if want, ok := tc.Expect(func(k scenario.Kind) bool { return k == scenario.Tree }); ok {
		got, _ := invoke("tree")
		be.Equal(t, got, want)
	}

	wantOut, checkOut := tc.Expect(func(k scenario.Kind) bool { return k == scenario.Output })
	wantErr, checkErr := tc.Expect(scenario.Kind.Stderr)
	if !checkOut && !checkErr {
		return
	}
	stdout, stderr := invoke("run")
	if checkOut {
		be.Equal(t, stdout, wantOut)
	}
	if checkErr {
		be.Equal(t, stderr, wantErr)
	}
}
