package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/innovation-hub/internal/ai"
	"github.com/iliyamo/innovation-hub/internal/database"
	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/queue"
	"github.com/iliyamo/innovation-hub/internal/repository"
)

const testCost = 4

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type testEnv struct {
	store    *repository.Store
	game     *Gamification
	ctrl     *Controller
	accounts *Accounts
	events   *recordingPublisher
	admin    model.User
	employee model.User
}

func newTestEnv(t *testing.T, enhancer Enhancer) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	defaults, err := repository.DefaultUsers("admin123", "employee123", testCost, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	env := &testEnv{store: repository.NewStore(db, defaults), events: &recordingPublisher{}}
	env.game = NewGamification(env.store, env.events)
	env.ctrl = NewController(env.store, env.game, env.events, enhancer)
	env.accounts = NewAccounts(env.store, testCost)
	clock := newTickingClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	env.ctrl.now = clock
	env.accounts.now = clock
	for _, u := range defaults {
		switch u.Username {
		case repository.DefaultAdminUsername:
			env.admin = u
		case repository.DefaultEmployeeUsername:
			env.employee = u
		}
	}
	return env
}

// newTickingClock returns a clock that advances one minute per reading so
// that ordering by timestamp is deterministic.
func newTickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Minute)
		return cur
	}
}

func (e *testEnv) user(t *testing.T, name string) model.User {
	t.Helper()
	snap, err := e.store.LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	idx := findUser(snap.Rows, name)
	if idx < 0 {
		t.Fatalf("user %q not found", name)
	}
	return snap.Rows[idx]
}

func (e *testEnv) idea(t *testing.T, id int64) model.Idea {
	t.Helper()
	i, err := e.ctrl.GetIdea(context.Background(), id)
	if err != nil {
		t.Fatalf("get idea %d: %v", id, err)
	}
	return i
}

// submit files a valid idea as actor and returns its id.
func (e *testEnv) submit(t *testing.T, actor model.User, title string) int64 {
	t.Helper()
	res, err := e.ctrl.SubmitIdea(context.Background(), actor, IdeaDraft{
		Title:       title,
		Description: "Details for " + title,
		Category:    model.CategoryProcess,
	}, false)
	if err != nil {
		t.Fatalf("submit %q: %v", title, err)
	}
	return res.Idea.ID
}

// fakeCompleter answers with reply or err and records every prompt.
type fakeCompleter struct {
	mu      sync.Mutex
	reply   func(system, prompt string) (string, error)
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.Message) (string, error) {
	var system, prompt string
	for _, m := range messages {
		switch m.Role {
		case ai.RoleSystem:
			system = m.Content
		case ai.RoleUser:
			prompt = m.Content
		}
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(system, prompt)
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return f.text, f.err
}
