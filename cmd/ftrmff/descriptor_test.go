package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDescriptorParsesTasksAndProcessors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.yaml")
	content := `
processors: [p1, p2, p3]
consistency_level: 1
tasks:
  - id: A
    period_ms: 10
    wcet_ms: 3
  - id: B
    period_ms: 20
    wcet_ms: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := loadDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, d.Processors)
	assert.Equal(t, 1, d.ConsistencyLevel)

	tasks := d.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].ID)
	assert.Equal(t, 10*time.Millisecond, tasks[0].Period)
	assert.Equal(t, 3*time.Millisecond, tasks[0].WCET)
}

func TestLoadDescriptorMissingFile(t *testing.T) {
	_, err := loadDescriptor(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := rootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["schedule"])
	assert.True(t, names["validate"])
}
