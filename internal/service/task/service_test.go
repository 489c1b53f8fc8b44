package task

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/rakmedia/hr-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc         task.TaskService
	store       *fake.Store
	resolver    *fake.Resolver
	invalidator *fake.Invalidator
	storage     *fake.Storage

	manager, staff, other employee.Employee
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := fake.NewStore()
	fx := store.SeedFixture(t)
	h := &harness{
		store:       store,
		resolver:    &fake.Resolver{},
		invalidator: &fake.Invalidator{},
		storage:     fake.NewStorage(),
	}
	h.manager, _ = store.SeedEmployee(t, fx.Company.ID, fx.ManagerPosition, 1, "maya", "putri", fx.HR.ID)
	h.staff, _ = store.SeedEmployee(t, fx.Company.ID, fx.StaffPosition, 2, "budi", "santoso", fx.Tech.ID)
	h.other, _ = store.SeedEmployee(t, fx.Company.ID, fx.StaffPosition, 3, "sari", "wijaya", fx.Tech.ID)

	h.svc = NewTaskService(
		store.Tasks(),
		store.TaskFiles(),
		store.Employees(),
		h.resolver,
		file.NewFileService(h.storage),
		h.invalidator,
	)
	return h
}

func (h *harness) as(e employee.Employee, tier user.Tier) {
	h.resolver.Subject = access.Subject{UserID: *e.UserID, EmployeeID: e.ID, CompanyID: e.CompanyID, Tier: tier}
}

func (h *harness) asAdmin() {
	h.resolver.Subject = access.Subject{UserID: 99, IsStaff: true}
}

func ptr[T any](v T) *T { return &v }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func (h *harness) seedTask(t *testing.T, assignedTo, assignedBy employee.Employee) task.Task {
	t.Helper()
	by := assignedBy.ID
	created, err := h.store.Tasks().Create(context.Background(), task.Task{Title: "Prepare report", AssignedTo: assignedTo.ID, AssignedBy: &by})
	require.NoError(t, err)
	return created
}

func (h *harness) upload(t *testing.T, taskID int64, name, body string) task.TaskFileResponse {
	t.Helper()
	resp, err := h.svc.UploadFile(context.Background(), task.UploadTaskFileRequest{
		TaskID:     taskID,
		File:       strings.NewReader(body),
		FileHeader: &multipart.FileHeader{Filename: name, Size: int64(len(body))},
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_SelfAssign(t *testing.T) {
	h := newHarness(t)
	h.as(h.staff, user.TierEmployee)

	resp, err := h.svc.Create(context.Background(), task.CreateTaskRequest{
		Title:      "  Write tests ",
		AssignedTo: ptr(h.staff.ID),
		DueDate:    ptr("2026-11-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Write tests", resp.Title)
	assert.Equal(t, h.staff.ID, resp.AssignedTo)
	assert.Equal(t, "budi.santoso", resp.AssignedToName)
	require.NotNil(t, resp.AssignedBy)
	assert.Equal(t, h.staff.ID, *resp.AssignedBy)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2026-11-01", *resp.DueDate)
	assert.NotNil(t, resp.Files)
	assert.Empty(t, resp.Files)
	assert.Equal(t, []string{cache.ModelTask}, h.invalidator.Cleared())
}

func TestCreate_AssignOthers(t *testing.T) {
	h := newHarness(t)

	h.as(h.staff, user.TierEmployee)
	_, err := h.svc.Create(context.Background(), task.CreateTaskRequest{Title: "Review", AssignedTo: ptr(h.other.ID)})
	assert.ErrorIs(t, err, task.ErrAssignOthersDenied)

	h.as(h.manager, user.TierManager)
	resp, err := h.svc.Create(context.Background(), task.CreateTaskRequest{Title: "Review", AssignedTo: ptr(h.other.ID)})
	require.NoError(t, err)
	assert.Equal(t, h.other.ID, resp.AssignedTo)
	require.NotNil(t, resp.AssignedByName)
	assert.Equal(t, "maya.putri", *resp.AssignedByName)
}

func TestCreate_Errors(t *testing.T) {
	h := newHarness(t)

	t.Run("no employee profile", func(t *testing.T) {
		h.resolver.Subject = access.Subject{UserID: 50}
		_, err := h.svc.Create(context.Background(), task.CreateTaskRequest{Title: "x", AssignedTo: ptr(h.staff.ID)})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		h.as(h.staff, user.TierEmployee)
		_, err := h.svc.Create(context.Background(), task.CreateTaskRequest{Title: " ", DueDate: ptr("01/02/2026")})
		errs := fieldErrors(t, err)
		assert.Equal(t, "This field may not be blank.", errs["title"])
		assert.Equal(t, "This field is required.", errs["assigned_to"])
		assert.Equal(t, "Date has wrong format. Use YYYY-MM-DD.", errs["due_date"])
	})

	t.Run("unknown assignee", func(t *testing.T) {
		h.as(h.manager, user.TierManager)
		_, err := h.svc.Create(context.Background(), task.CreateTaskRequest{Title: "x", AssignedTo: ptr(int64(4242))})
		assert.Equal(t, `Invalid pk "4242" - object does not exist.`, fieldErrors(t, err)["assigned_to"])
	})
}

func TestCreateAsManager(t *testing.T) {
	h := newHarness(t)

	h.as(h.staff, user.TierEmployee)
	_, err := h.svc.CreateAsManager(context.Background(), task.CreateTaskRequest{Title: "x", AssignedTo: ptr(h.staff.ID)})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	h.as(h.manager, user.TierManager)
	_, err = h.svc.CreateAsManager(context.Background(), task.CreateTaskRequest{Title: "x", AssignedTo: ptr(h.staff.ID)})
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	h := newHarness(t)
	mine := h.seedTask(t, h.staff, h.manager)
	h.seedTask(t, h.other, h.manager)
	byStaff := h.seedTask(t, h.other, h.staff)

	h.as(h.staff, user.TierEmployee)
	tasks, err := h.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)

	assigned, err := h.svc.ListAssignedByMe(context.Background())
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, byStaff.ID, assigned[0].ID)

	h.asAdmin()
	all, err := h.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := h.svc.ListAssignedByMe(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	h.resolver.Subject = access.Subject{UserID: 50}
	none, err = h.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGet_Access(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)

	tests := []struct {
		name    string
		setup   func()
		wantErr error
	}{
		{"assignee", func() { h.as(h.staff, user.TierEmployee) }, nil},
		{"assigner", func() { h.as(h.manager, user.TierManager) }, nil},
		{"staff user", h.asAdmin, nil},
		{"uninvolved employee", func() { h.as(h.other, user.TierEmployee) }, task.ErrTaskAccessDenied},
		{"uninvolved manager", func() { h.as(h.other, user.TierManager) }, task.ErrTaskAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			resp, err := h.svc.Get(context.Background(), tk.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tk.ID, resp.ID)
		})
	}

	h.as(h.staff, user.TierEmployee)
	_, err := h.svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestUpdate(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)

	h.as(h.staff, user.TierEmployee)
	resp, err := h.svc.Update(context.Background(), tk.ID, task.UpdateTaskRequest{Completed: ptr(true)}, true)
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, "Prepare report", resp.Title)

	_, err = h.svc.Update(context.Background(), tk.ID, task.UpdateTaskRequest{AssignedTo: ptr(h.other.ID)}, true)
	assert.ErrorIs(t, err, task.ErrAssignOthersDenied)

	_, err = h.svc.Update(context.Background(), tk.ID, task.UpdateTaskRequest{Completed: ptr(false)}, false)
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "assigned_to")

	h.as(h.manager, user.TierManager)
	resp, err = h.svc.Update(context.Background(), tk.ID, task.UpdateTaskRequest{
		Title:      ptr("Final report"),
		AssignedTo: ptr(h.other.ID),
		DueDate:    ptr(""),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Final report", resp.Title)
	assert.Equal(t, h.other.ID, resp.AssignedTo)
	assert.Nil(t, resp.DueDate)
	assert.Contains(t, h.invalidator.Cleared(), cache.ModelTask)
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)

	h.as(h.staff, user.TierEmployee)
	f := h.upload(t, tk.ID, "notes.txt", "hello")
	require.Len(t, h.storage.Files, 1)

	h.as(h.other, user.TierEmployee)
	assert.ErrorIs(t, h.svc.Delete(context.Background(), tk.ID), task.ErrTaskAccessDenied)

	h.as(h.manager, user.TierManager)
	require.NoError(t, h.svc.Delete(context.Background(), tk.ID))
	assert.Empty(t, h.storage.Files)

	_, err := h.store.TaskFiles().GetByID(context.Background(), f.ID)
	assert.ErrorIs(t, err, task.ErrTaskFileNotFound)
	_, err = h.svc.Get(context.Background(), tk.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestFiles(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)

	h.as(h.staff, user.TierEmployee)
	first := h.upload(t, tk.ID, "Plan Q4.PDF", "%PDF")
	second := h.upload(t, tk.ID, "notes.txt", "hello")

	assert.True(t, strings.HasPrefix(first.File, "http://files.test/task_files/"))
	assert.True(t, strings.HasSuffix(first.File, ".pdf"))
	assert.Equal(t, "budi santoso", first.UploadedByName)

	files, err := h.svc.ListFiles(context.Background(), tk.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, second.ID, files[0].ID)

	got, err := h.svc.Get(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.Len(t, got.Files, 2)

	h.as(h.other, user.TierEmployee)
	_, err = h.svc.ListFiles(context.Background(), tk.ID)
	assert.ErrorIs(t, err, task.ErrTaskAccessDenied)
	assert.Contains(t, h.invalidator.Cleared(), cache.ModelTaskFile)
}

func TestUploadFile_Validation(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)
	h.as(h.staff, user.TierEmployee)

	_, err := h.svc.UploadFile(context.Background(), task.UploadTaskFileRequest{TaskID: tk.ID})
	assert.Equal(t, "No file was submitted.", fieldErrors(t, err)["file"])

	_, err = h.svc.UploadFile(context.Background(), task.UploadTaskFileRequest{
		TaskID:     tk.ID,
		File:       strings.NewReader("x"),
		FileHeader: &multipart.FileHeader{Filename: "big.bin", Size: task.MaxTaskFileSize + 1},
	})
	assert.Contains(t, fieldErrors(t, err), "file")
	assert.Empty(t, h.storage.Files)
}

func TestDeleteFile(t *testing.T) {
	h := newHarness(t)
	tk := h.seedTask(t, h.staff, h.manager)
	otherTask := h.seedTask(t, h.other, h.manager)

	h.as(h.staff, user.TierEmployee)
	f := h.upload(t, tk.ID, "a.txt", "a")

	t.Run("wrong task", func(t *testing.T) {
		h.as(h.staff, user.TierEmployee)
		assert.ErrorIs(t, h.svc.DeleteFile(context.Background(), otherTask.ID, f.ID), task.ErrTaskFileNotFound)
	})

	t.Run("not uploader", func(t *testing.T) {
		h.as(h.other, user.TierEmployee)
		assert.ErrorIs(t, h.svc.DeleteFile(context.Background(), tk.ID, f.ID), task.ErrTaskFileDeleteDenied)
	})

	t.Run("no employee", func(t *testing.T) {
		h.asAdmin()
		assert.ErrorIs(t, h.svc.DeleteFile(context.Background(), tk.ID, f.ID), employee.ErrEmployeeNotFound)
	})

	t.Run("manager", func(t *testing.T) {
		h.as(h.manager, user.TierManager)
		require.NoError(t, h.svc.DeleteFile(context.Background(), tk.ID, f.ID))
		assert.Empty(t, h.storage.Files)
		assert.ErrorIs(t, h.svc.DeleteFile(context.Background(), tk.ID, f.ID), task.ErrTaskFileNotFound)
	})

	t.Run("uploader", func(t *testing.T) {
		h.as(h.staff, user.TierEmployee)
		own := h.upload(t, tk.ID, "b.txt", "b")
		assert.NoError(t, h.svc.DeleteFile(context.Background(), tk.ID, own.ID))
	})
}
