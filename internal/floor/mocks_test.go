package floor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
)

// MockStore is a test mock for Store
type MockStore struct {
	mu       sync.Mutex
	snapshot *Snapshot
	saves    int

	LoadFunc func(ctx context.Context) (*Snapshot, error)
	SaveFunc func(ctx context.Context, snap Snapshot) error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Load(ctx context.Context) (*Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return nil, nil
	}
	snap := *m.snapshot
	return &snap, nil
}

func (m *MockStore) Save(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snap)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &snap
	return nil
}

func (m *MockStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// MockAuthorizer approves exactly one password.
type MockAuthorizer struct {
	password      string
	AuthorizeFunc func(ctx context.Context, credential string) bool
}

func (m *MockAuthorizer) Authorize(ctx context.Context, credential string) bool {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, credential)
	}
	return credential == m.password
}

type notification struct {
	kind    NotificationKind
	message string
}

// MockNotifier records every notification.
type MockNotifier struct {
	mu            sync.Mutex
	notifications []notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, kind NotificationKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notification{kind: kind, message: message})
}

func (m *MockNotifier) Last() (notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.notifications) == 0 {
		return notification{}, false
	}
	return m.notifications[len(m.notifications)-1], true
}

func (m *MockNotifier) Count(kind NotificationKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, nt := range m.notifications {
		if nt.kind == kind {
			n++
		}
	}
	return n
}

type publishedMessage struct {
	topic string
	data  []byte
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu          sync.Mutex
	published   []publishedMessage
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMessage{topic: topic, data: msg})
	return nil
}

func (m *MockPublisher) Topic(topic string) []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []publishedMessage
	for _, p := range m.published {
		if p.topic == topic {
			result = append(result, p)
		}
	}
	return result
}

// MockSubscriber is a test mock for events.Subscriber
type MockSubscriber struct {
	handlers      map[string]events.HandlerFunc
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{handlers: make(map[string]events.HandlerFunc)}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	m.handlers[topic] = handler
	return nil
}

// MockHealth records persistence outcomes.
type MockHealth struct {
	mu      sync.Mutex
	reports []error
}

func (m *MockHealth) ReportPersistence(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, err)
}

// fakeClock advances one second on every read so that orders submitted in
// sequence get distinct timestamps.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start, step: time.Second}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func sequentialIDs() func() uuid.UUID {
	var mu sync.Mutex
	n := 0
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
	}
}

const testAdminPassword = "admin123"

var testStart = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)

type testFloor struct {
	*Floor
	store     *MockStore
	notifier  *MockNotifier
	publisher *MockPublisher
	health    *MockHealth
	clock     *fakeClock
}

func newTestFloor(t *testing.T) *testFloor {
	t.Helper()
	return newTestFloorWithCatalog(t, testCatalog(t))
}

func newTestFloorWithCatalog(t *testing.T, catalog *Catalog) *testFloor {
	t.Helper()

	tf := &testFloor{
		store:     NewMockStore(),
		notifier:  NewMockNotifier(),
		publisher: NewMockPublisher(),
		health:    &MockHealth{},
		clock:     newFakeClock(testStart),
	}
	tf.Floor = New(Deps{
		Catalog:    catalog,
		TableCount: DefaultTableCount,
		Store:      tf.store,
		Authorizer: &MockAuthorizer{password: testAdminPassword},
		Notifier:   tf.notifier,
		Publisher:  tf.publisher,
		Health:     tf.health,
		Clock:      tf.clock.Now,
		NewID:      sequentialIDs(),
	}, apt.NewNoopLogger())
	return tf
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	return c
}

// submitOrder selects the table, adds the items and submits them.
func submitOrder(t *testing.T, f *Floor, table int, items ...int) KitchenOrder {
	t.Helper()
	ctx := context.Background()

	if err := f.SelectTable(ctx, table); err != nil {
		t.Fatalf("SelectTable(%d) error = %v", table, err)
	}
	for _, id := range items {
		if _, err := f.AddItem(ctx, table, id); err != nil {
			t.Fatalf("AddItem(%d, %d) error = %v", table, id, err)
		}
	}
	order, err := f.Submit(ctx, table)
	if err != nil {
		t.Fatalf("Submit(%d) error = %v", table, err)
	}
	return order
}

func advanceTo(t *testing.T, f *Floor, id uuid.UUID, statuses ...string) {
	t.Helper()
	for _, s := range statuses {
		if _, err := f.AdvanceStatus(context.Background(), id, s); err != nil {
			t.Fatalf("AdvanceStatus(%s) error = %v", s, err)
		}
	}
}
