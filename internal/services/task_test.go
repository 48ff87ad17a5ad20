package services

import (
	"testing"
	"time"

	"github.com/collabtrack/collabtrack/internal/models"
	"gorm.io/gorm"
)

func newTaskService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	scope := NewScopeService(db)
	notifySvc := NewNotificationService(db, nil)
	return NewTaskService(db, scope, notifySvc), db
}

func seedProject(t *testing.T, db *gorm.DB, createdBy uint) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:     "Test Project",
		Status:    models.ProjectStatusActive,
		CreatedBy: createdBy,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func TestTaskListRequest_Defaults(t *testing.T) {
	req := &TaskListRequest{}

	if req.Page != 0 {
		t.Errorf("default Page should be 0, got %d", req.Page)
	}
	if req.PageSize != 0 {
		t.Errorf("default PageSize should be 0, got %d", req.PageSize)
	}
	if req.ProjectID != 0 {
		t.Errorf("default ProjectID should be 0, got %d", req.ProjectID)
	}
}

func TestTaskListRequest_WithFilters(t *testing.T) {
	req := &TaskListRequest{
		Page:       1,
		PageSize:   50,
		ProjectID:  3,
		Status:     "in_progress",
		Priority:   "urgent",
		AssignedTo: 7,
		Search:     "login",
	}

	if req.Status != "in_progress" {
		t.Errorf("Status = %q, expected %q", req.Status, "in_progress")
	}
	if req.Priority != "urgent" {
		t.Errorf("Priority = %q, expected %q", req.Priority, "urgent")
	}
	if req.AssignedTo != 7 {
		t.Errorf("AssignedTo = %d, expected 7", req.AssignedTo)
	}
}

func TestCreateTaskRequest_RequiredFields(t *testing.T) {
	assignee := uint(5)
	due := time.Now().AddDate(0, 0, 14)
	req := &CreateTaskRequest{
		Title:         "Fix login redirect",
		Description:   "Users land on a blank page after login",
		Priority:      "high",
		DueDate:       &due,
		EstimatedTime: 4,
		ProjectID:     1,
		AssignedTo:    &assignee,
	}

	if req.Title == "" {
		t.Error("Title is required")
	}
	if req.ProjectID == 0 {
		t.Error("ProjectID is required")
	}
	if req.AssignedTo == nil || *req.AssignedTo != 5 {
		t.Error("AssignedTo should be 5")
	}
}

func TestAddTimeEntryRequest_Fields(t *testing.T) {
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	req := &AddTimeEntryRequest{
		Hours:       2.5,
		Description: "Debugging session",
		Date:        &date,
	}

	if req.Hours != 2.5 {
		t.Errorf("Hours = %f, expected 2.5", req.Hours)
	}
	if req.Date == nil {
		t.Error("Date should be set")
	}
}

func TestTaskService_CreateNotifiesAssignee(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	assignee := seedUser(t, db, "assignee@collabtrack.com", "Assignee")
	project := seedProject(t, db, creator.ID)

	if _, err := svc.Create(&CreateTaskRequest{
		Title:      "Set up CI",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	}, creator.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := notificationCount(t, db, assignee.ID, models.NotificationTaskAssigned); got != 1 {
		t.Errorf("assignee has %d assignment notifications, expected 1", got)
	}
}

func TestTaskService_CreateSelfAssignedNotNotified(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	project := seedProject(t, db, creator.ID)

	if _, err := svc.Create(&CreateTaskRequest{
		Title:      "Write release notes",
		ProjectID:  project.ID,
		AssignedTo: &creator.ID,
	}, creator.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := notificationCount(t, db, creator.ID, models.NotificationTaskAssigned); got != 0 {
		t.Errorf("self-assignment created %d notifications, expected 0", got)
	}
}

func TestTaskService_UpdateTitleOnlyDoesNotNotify(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	assignee := seedUser(t, db, "assignee@collabtrack.com", "Assignee")
	project := seedProject(t, db, creator.ID)

	task, err := svc.Create(&CreateTaskRequest{
		Title:      "Fix flaky test",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(task.ID, &UpdateTaskRequest{Title: "Fix flaky auth test"}, creator.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := notificationCount(t, db, assignee.ID, models.NotificationTaskUpdated); got != 0 {
		t.Errorf("title-only update created %d update notifications, expected 0", got)
	}
}

func TestTaskService_UpdateStatusChangeNotifiesAssignee(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	assignee := seedUser(t, db, "assignee@collabtrack.com", "Assignee")
	project := seedProject(t, db, creator.ID)

	task, err := svc.Create(&CreateTaskRequest{
		Title:      "Migrate database",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(task.ID, &UpdateTaskRequest{Status: models.TaskStatusInProgress}, creator.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := notificationCount(t, db, assignee.ID, models.NotificationTaskUpdated); got != 1 {
		t.Fatalf("status change created %d update notifications, expected 1", got)
	}

	var notification models.Notification
	if err := db.Where("user_id = ? AND type = ?", assignee.ID, models.NotificationTaskUpdated).
		First(&notification).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	want := "Task \"Migrate database\" has been started working on"
	if notification.Message != want {
		t.Errorf("message = %q, expected %q", notification.Message, want)
	}

	// Re-submitting the same status is not a change
	if _, err := svc.Update(task.ID, &UpdateTaskRequest{Status: models.TaskStatusInProgress}, creator.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := notificationCount(t, db, assignee.ID, models.NotificationTaskUpdated); got != 1 {
		t.Errorf("unchanged status created extra notifications, count = %d", got)
	}
}

func TestTaskService_UpdateOwnStatusNotNotified(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	assignee := seedUser(t, db, "assignee@collabtrack.com", "Assignee")
	project := seedProject(t, db, creator.ID)

	task, err := svc.Create(&CreateTaskRequest{
		Title:      "Refactor router",
		ProjectID:  project.ID,
		AssignedTo: &assignee.ID,
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(task.ID, &UpdateTaskRequest{Status: models.TaskStatusDone}, assignee.ID); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := notificationCount(t, db, assignee.ID, models.NotificationTaskUpdated); got != 0 {
		t.Errorf("own status change created %d notifications, expected 0", got)
	}
}

func TestTaskService_TimeEntriesSumIntoTimeSpent(t *testing.T) {
	svc, db := newTaskService(t)
	creator := seedUser(t, db, "creator@collabtrack.com", "Creator")
	project := seedProject(t, db, creator.ID)

	task, err := svc.Create(&CreateTaskRequest{
		Title:     "Profile slow endpoint",
		ProjectID: project.ID,
	}, creator.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddTimeEntry(task.ID, creator.ID, &AddTimeEntryRequest{Hours: 2.5}); err != nil {
		t.Fatalf("AddTimeEntry: %v", err)
	}
	if _, err := svc.AddTimeEntry(task.ID, creator.ID, &AddTimeEntryRequest{Hours: 1.5}); err != nil {
		t.Fatalf("AddTimeEntry: %v", err)
	}

	var reloaded models.Task
	if err := db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if reloaded.TimeSpent != 4 {
		t.Errorf("TimeSpent = %f, expected 4", reloaded.TimeSpent)
	}
}
