package notification

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upkeephq/upkeep-api/internal/config"
	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/push"
	"github.com/upkeephq/upkeep-api/pkg/logger"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("upkeep_test", "notifications")

var testLogger = logger.FromZerolog(zerolog.New(os.Stderr).Level(zerolog.Disabled))

// testNow is the pinned "current time" for all scans: mid-morning so that
// midnight truncation matters.
var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func testPushConfig() config.PushConfig {
	return config.PushConfig{
		DefaultURL: "/",
		IconPath:   "/icons/icon-192.png",
		BadgePath:  "/icons/badge-72.png",
	}
}

// dueInDays returns a due date the given number of days from testNow,
// deliberately at an odd time of day.
func dueInDays(days int) *time.Time {
	d := testNow.AddDate(0, 0, days)
	d = time.Date(d.Year(), d.Month(), d.Day(), 17, 45, 0, 0, time.UTC)
	return &d
}

func allThresholdsEnabled() *model.NotificationSettings {
	return &model.NotificationSettings{
		ID:                 uuid.New(),
		Enabled:            true,
		NotifyOneMonth:     true,
		NotifyTwoWeeks:     true,
		NotifyOneWeek:      true,
		NotifyThreeDays:    true,
		NotifyOneDay:       true,
		NotifyDueDate:      true,
		NotifyOverdueDaily: true,
	}
}

type fakeTaskRepo struct {
	tasks   []*model.Task
	listErr error
}

func (f *fakeTaskRepo) ListPending(ctx context.Context) ([]*model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var pending []*model.Task
	for _, t := range f.tasks {
		if t.Status == model.TaskStatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

type fakeEquipmentRepo struct {
	items []*model.Equipment
}

func (f *fakeEquipmentRepo) List(ctx context.Context) ([]*model.Equipment, error) {
	return f.items, nil
}

type fakeTaskTypeRepo struct {
	items []*model.TaskType
}

func (f *fakeTaskTypeRepo) List(ctx context.Context) ([]*model.TaskType, error) {
	return f.items, nil
}

type fakeNotificationRepo struct {
	settings  *model.NotificationSettings
	ledger    map[string]bool
	appendErr error
	checkErr  error
}

func newFakeNotificationRepo(settings *model.NotificationSettings) *fakeNotificationRepo {
	return &fakeNotificationRepo{
		settings: settings,
		ledger:   make(map[string]bool),
	}
}

func ledgerKey(taskID uuid.UUID, threshold model.ThresholdType, date string) string {
	return fmt.Sprintf("%s|%s|%s", taskID, threshold, date)
}

func (f *fakeNotificationRepo) GetSettings(ctx context.Context) (*model.NotificationSettings, error) {
	return f.settings, nil
}

func (f *fakeNotificationRepo) LedgerHasEntry(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.ledger[ledgerKey(taskID, threshold, date)], nil
}

func (f *fakeNotificationRepo) LedgerAppend(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.ledger[ledgerKey(taskID, threshold, date)] = true
	return nil
}

type fakeSubscriptionRepo struct {
	subs    []*model.PushSubscription
	touched []uuid.UUID
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *model.PushSubscription) error {
	for _, existing := range f.subs {
		if existing.Endpoint == sub.Endpoint {
			existing.P256dhKey = sub.P256dhKey
			existing.AuthKey = sub.AuthKey
			*sub = *existing
			return nil
		}
	}
	sub.ID = uuid.New()
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubscriptionRepo) List(ctx context.Context) ([]*model.PushSubscription, error) {
	out := make([]*model.PushSubscription, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, sub := range f.subs {
		if sub.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("subscription not found")
}

func (f *fakeSubscriptionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

type sentPush struct {
	Endpoint string
	Payload  []byte
}

// fakeTransport records sends and fails configured endpoints.
type fakeTransport struct {
	sent []sentPush
	fail map[string]error
}

func (f *fakeTransport) Send(ctx context.Context, sub *model.PushSubscription, payload []byte) error {
	if err, ok := f.fail[sub.Endpoint]; ok {
		return err
	}
	f.sent = append(f.sent, sentPush{Endpoint: sub.Endpoint, Payload: payload})
	return nil
}

var _ push.Transport = (*fakeTransport)(nil)

type testEnv struct {
	svc       *Service
	tasks     *fakeTaskRepo
	equipment *fakeEquipmentRepo
	taskTypes *fakeTaskTypeRepo
	ledger    *fakeNotificationRepo
	subs      *fakeSubscriptionRepo
	transport *fakeTransport
}

func newTestEnv(settings *model.NotificationSettings) *testEnv {
	env := &testEnv{
		tasks:     &fakeTaskRepo{},
		equipment: &fakeEquipmentRepo{},
		taskTypes: &fakeTaskTypeRepo{},
		ledger:    newFakeNotificationRepo(settings),
		subs:      &fakeSubscriptionRepo{},
		transport: &fakeTransport{fail: make(map[string]error)},
	}

	delivery := NewDelivery(env.subs, env.transport, testLogger, testMetrics)
	composer := NewComposer(testPushConfig())
	env.svc = NewService(
		env.tasks,
		env.equipment,
		env.taskTypes,
		env.ledger,
		delivery,
		composer,
		nil,
		testLogger,
		testMetrics,
	)
	env.svc.now = func() time.Time { return testNow }
	return env
}

// addTask wires a pending task with its own equipment and task type, due the
// given number of days out (nil due date when days is nil).
func (env *testEnv) addTask(name string, due *time.Time) *model.Task {
	eq := &model.Equipment{ID: uuid.New(), Name: name + " equipment"}
	tt := &model.TaskType{ID: uuid.New(), Name: name}
	task := &model.Task{
		ID:          uuid.New(),
		EquipmentID: eq.ID,
		TaskTypeID:  tt.ID,
		Status:      model.TaskStatusPending,
		NextDueDate: due,
	}
	env.equipment.items = append(env.equipment.items, eq)
	env.taskTypes.items = append(env.taskTypes.items, tt)
	env.tasks.tasks = append(env.tasks.tasks, task)
	return task
}

func (env *testEnv) addSubscription(endpoint string) *model.PushSubscription {
	sub := &model.PushSubscription{
		ID:        uuid.New(),
		Endpoint:  endpoint,
		P256dhKey: "p256dh-key",
		AuthKey:   "auth-key",
	}
	env.subs.subs = append(env.subs.subs, sub)
	return sub
}
