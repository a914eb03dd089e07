package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupService(t *testing.T, c *cache.Cache) (*service.TaskService, *fakeClock) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.Open(sqlite.Open("file:" + name + "?mode=memory&cache=shared"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewTagRepository(db),
		c,
		8*time.Hour,
		nil,
	).WithClock(clock.Now)
	return svc, clock
}

func create(t *testing.T, svc *service.TaskService, title, status string) *model.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), api.TaskCreateRequest{Title: title, Status: status})
	require.NoError(t, err)
	return task
}

func TestTaskService_CreateAssignsOrderAndDefaults(t *testing.T) {
	svc, _ := setupService(t, nil)

	first := create(t, svc, "  First  ", "")
	second := create(t, svc, "Second", "ToDo")
	other := create(t, svc, "Other", "In Progress")

	assert.Equal(t, "First", first.Title)
	assert.Equal(t, model.StatusToDo, first.Status)
	assert.Equal(t, 1, *first.OrderIndex)
	assert.Equal(t, model.StatusToDo, second.Status)
	assert.Equal(t, 2, *second.OrderIndex)
	assert.Equal(t, 1, *other.OrderIndex)
	assert.Nil(t, first.DoneAt)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	badDate := "03/04/2025"

	cases := []api.TaskCreateRequest{
		{Title: "   "},
		{Title: "Bad Status", Status: "Not A Status"},
		{Title: "Bad date", DueDate: &badDate},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, service.ErrValidation, "request %+v", req)
	}
}

func TestTaskService_StatusChangeAppendsAndTracksDone(t *testing.T) {
	svc, clock := setupService(t, nil)
	ctx := context.Background()

	create(t, svc, "Existing", "In Progress")
	task := create(t, svc, "Move me", "To Do")

	moved, err := svc.Update(ctx, task.ID, api.TaskUpdateRequest{Status: api.Some("Ongoing")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, moved.Status)
	assert.Equal(t, 2, *moved.OrderIndex)
	assert.Nil(t, moved.DoneAt)

	clock.Advance(time.Minute)
	done, err := svc.Update(ctx, task.ID, api.TaskUpdateRequest{Status: api.Some("Done")})
	require.NoError(t, err)
	require.NotNil(t, done.DoneAt)
	assert.Equal(t, clock.now, done.DoneAt.UTC())
	assert.Equal(t, 1, *done.OrderIndex)

	back, err := svc.Update(ctx, task.ID, api.TaskUpdateRequest{Status: api.Some("To Do")})
	require.NoError(t, err)
	assert.Nil(t, back.DoneAt)
}

func TestTaskService_UpdatePartialFields(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	desc := "keep me"
	task, err := svc.Create(ctx, api.TaskCreateRequest{Title: "Edit", Description: &desc})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, api.TaskUpdateRequest{
		Title:   api.Some("Edited"),
		DueDate: api.Some("2025-07-01"),
		Urgent:  api.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2025-07-01", updated.DueDate.Format(api.DateLayout))
	assert.True(t, updated.Urgent)

	cleared, err := svc.Update(ctx, task.ID, api.TaskUpdateRequest{Description: api.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)

	_, err = svc.Update(ctx, task.ID, api.TaskUpdateRequest{Title: api.Some(" ")})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Update(ctx, 999, api.TaskUpdateRequest{Title: api.Some("x")})
	assert.True(t, service.IsNotFound(err))
}

func TestTaskService_DeleteArchivesThenRemoves(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	task := create(t, svc, "Delete me", "")

	archived, err := svc.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, archived.DeletedAt.Valid)

	active, err := svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, active)

	list, err := svc.ListArchived(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, task.ID, list[0].ID)

	_, err = svc.Delete(ctx, task.ID)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, task.ID)
	assert.True(t, service.IsNotFound(err))
}

func TestTaskService_DoneTasksArchiveAfterWindow(t *testing.T) {
	svc, clock := setupService(t, nil)
	ctx := context.Background()
	task := create(t, svc, "Finish", "Done")

	active, err := svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	clock.Advance(8 * time.Hour)

	active, err = svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := svc.ListArchived(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, task.ID, archived[0].ID)
	assert.False(t, archived[0].DeletedAt.Valid)

	// an expired Done task is already archived, so delete removes it
	_, err = svc.Delete(ctx, task.ID)
	require.NoError(t, err)
	archived, err = svc.ListArchived(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestTaskService_Restore(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	create(t, svc, "Stay", "")
	task := create(t, svc, "Come back", "Done")
	_, err := svc.Delete(ctx, task.ID)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusToDo, restored.Status)
	assert.False(t, restored.DeletedAt.Valid)
	assert.Nil(t, restored.DoneAt)
	assert.Equal(t, 2, *restored.OrderIndex)

	active, err := svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestTaskService_PurgeArchived(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	create(t, svc, "Keep", "")
	for _, title := range []string{"a", "b"} {
		task := create(t, svc, title, "")
		_, err := svc.Delete(ctx, task.ID)
		require.NoError(t, err)
	}

	count, err := svc.PurgeArchived(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTaskService_ReorderRejectsUnknownStatus(t *testing.T) {
	svc, _ := setupService(t, nil)

	_, err := svc.Reorder(context.Background(), "Later", []int64{1})

	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestTaskService_RemembersTags(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()
	tags := "Alpha, beta"
	_, err := svc.Create(ctx, api.TaskCreateRequest{Title: "Tagged", Tags: &tags})
	require.NoError(t, err)

	task := create(t, svc, "Later", "")
	_, err = svc.Update(ctx, task.ID, api.TaskUpdateRequest{Tags: api.Some("alpha, Gamma")})
	require.NoError(t, err)

	names, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "Gamma"}, names)
}

func TestTaskService_CachedListIsEvictedOnMutation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, _ := setupService(t, cache.New(client, time.Minute))
	ctx := context.Background()
	create(t, svc, "One", "")

	first, err := svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(cache.GroupTasks))

	create(t, svc, "Two", "")
	assert.False(t, mr.Exists(cache.GroupTasks))

	second, err := svc.ListActive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
