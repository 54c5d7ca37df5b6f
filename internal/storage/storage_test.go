package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "tasks.db"), filepath.Join(dir, "completed_tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndFetch(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add("2024-06-03", "water plants"))
	require.NoError(t, s.Add("2024-06-03", "buy milk"))
	require.NoError(t, s.Add("2024-06-04", "call mom"))

	tasks, err := s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "water plants", tasks[0].Text)
	assert.Equal(t, "buy milk", tasks[1].Text)
	assert.Equal(t, "2024-06-03", tasks[0].Date)

	completed, err := s.CompletedForDate("2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestAddBatch(t *testing.T) {
	s := openTestStore(t)

	entries := []Entry{
		{Date: "2024-06-03", Text: "standup"},
		{Date: "2024-06-05", Text: "standup"},
		{Date: "2024-06-07", Text: "standup"},
	}
	require.NoError(t, s.AddBatch(entries))

	for _, e := range entries {
		tasks, err := s.TasksForDate(e.Date)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "standup", tasks[0].Text)
	}
}

func TestAddBatchEmpty(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AddBatch(nil))

	dates, err := s.AllTaskDates()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestCompleteUncompleteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Add("2024-06-03", "water plants"))

	tasks, err := s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, s.Complete(tasks[0].ID, "2024-06-03", "water plants"))

	tasks, err = s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	completed, err := s.CompletedForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, completed, 1)

	require.NoError(t, s.Uncomplete(completed[0].ID, "2024-06-03", "water plants"))

	tasks, err = s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "water plants", tasks[0].Text)
	completed, err = s.CompletedForDate("2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestUncompleteSkipsDuplicate(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Add("2024-06-03", "standup"))
	tasks, err := s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	require.NoError(t, s.Complete(tasks[0].ID, "2024-06-03", "standup"))

	// identical task re-added while the first sits in the completed store
	require.NoError(t, s.Add("2024-06-03", "standup"))

	completed, err := s.CompletedForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.NoError(t, s.Uncomplete(completed[0].ID, "2024-06-03", "standup"))

	tasks, err = s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "uncomplete must not duplicate an identical active task")
	completed, err = s.CompletedForDate("2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, completed, "completed record is removed regardless")
}

func TestDeleteIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Add("2024-06-03", "water plants"))
	tasks, err := s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, s.DeleteTask(tasks[0].ID))
	require.NoError(t, s.DeleteTask(tasks[0].ID))
	require.NoError(t, s.DeleteCompleted(9999))

	tasks, err = s.TasksForDate("2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAllTaskDates(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Add("2024-06-03", "a"))
	require.NoError(t, s.Add("2024-06-04", "b"))
	tasks, err := s.TasksForDate("2024-06-04")
	require.NoError(t, err)
	require.NoError(t, s.Complete(tasks[0].ID, "2024-06-04", "b"))

	dates, err := s.AllTaskDates()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"2024-06-03": {},
		"2024-06-04": {},
	}, dates)
}
