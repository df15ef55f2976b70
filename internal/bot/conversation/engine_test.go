package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/session"
)

// fakeSender records every sent message and can be told to fail.
type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	failFor  map[int64]error
}

type sentMessage struct {
	chatID int64
	text   string
	markup models.ReplyMarkup
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[int64]error)}
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (f *fakeSender) sentTo(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.messages {
		if m.chatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) lastText(chatID int64) string {
	msgs := f.sentTo(chatID)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].text
}

// fakeUserStore implements conversation.UserStore in memory.
type fakeUserStore struct {
	mu        sync.Mutex
	users     map[int64]*database.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*database.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *database.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.ChatID]; exists {
		return fmt.Errorf("user %d already exists", user.ChatID)
	}
	cp := *user
	f.users[user.ChatID] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByChatID(_ context.Context, chatID int64) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[chatID]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

// fakeEscalator records relayed events.
type fakeEscalator struct {
	mu       sync.Mutex
	signups  []int64
	supports []string
}

func (f *fakeEscalator) NewSignup(_ context.Context, user *database.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signups = append(f.signups, user.ChatID)
}

func (f *fakeEscalator) SupportMessage(_ context.Context, _ int64, _, _, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supports = append(f.supports, text)
}

type engineFixture struct {
	engine   *conversation.Engine
	sender   *fakeSender
	store    *fakeUserStore
	relay    *fakeEscalator
	sessions *session.MemoryStore
}

func newEngineFixture() *engineFixture {
	sender := newFakeSender()
	store := newFakeUserStore()
	relay := &fakeEscalator{}
	sessions := session.NewMemoryStore(0)
	engine := conversation.NewEngine(nil, sessions, store, sender, relay)
	return &engineFixture{engine: engine, sender: sender, store: store, relay: relay, sessions: sessions}
}

func TestResumeWithoutSessionIsNoOp(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	handled, err := f.engine.Resume(context.Background(), 1, conversation.Update{Text: "hello"})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if handled {
		t.Error("Resume with no session should report handled=false")
	}
	if len(f.sender.sentTo(1)) != 0 {
		t.Error("Resume with no session must not send anything")
	}
}

func TestEnterTwiceReturnsErrSessionActive(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()

	if err := f.engine.Enter(ctx, 1, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("first Enter failed: %v", err)
	}
	err := f.engine.Enter(ctx, 1, conversation.ProgramOnboarding)
	if !errors.Is(err, conversation.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
}

func TestEnterUnknownProgram(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	if err := f.engine.Enter(context.Background(), 1, "mystery"); err == nil {
		t.Fatal("expected an error for an unknown program")
	}
}

func TestCancelRemovesSessionSynchronously(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()

	if err := f.engine.Enter(ctx, 1, conversation.ProgramSupport); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	existed, err := f.engine.Cancel(ctx, 1)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !existed {
		t.Error("Cancel should report an existing session")
	}

	// The very next update must fall through to command dispatch
	handled, err := f.engine.Resume(ctx, 1, conversation.Update{Text: "ordinary text"})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if handled {
		t.Error("update after cancel must not be consumed by the engine")
	}
	if len(f.relay.supports) != 0 {
		t.Error("update after cancel must not be forwarded to staff")
	}
}

func TestCancelWithoutSession(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()

	existed, err := f.engine.Cancel(context.Background(), 1)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if existed {
		t.Error("Cancel should report no session existed")
	}
}

func TestSupportLoopForwardsAndAcknowledges(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()

	if err := f.engine.Enter(ctx, 7, conversation.ProgramSupport); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	for _, text := range []string{"first issue", "second issue"} {
		handled, err := f.engine.Resume(ctx, 7, conversation.Update{Text: text})
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
		if !handled {
			t.Fatal("support session should consume the update")
		}
	}

	if len(f.relay.supports) != 2 {
		t.Fatalf("expected 2 forwarded messages, got %d", len(f.relay.supports))
	}
	if f.relay.supports[0] != "first issue" || f.relay.supports[1] != "second issue" {
		t.Errorf("unexpected forwarded texts: %v", f.relay.supports)
	}

	// Intro + two acknowledgements
	if got := len(f.sender.sentTo(7)); got != 3 {
		t.Errorf("expected 3 messages to the user, got %d", got)
	}
}

func TestSupportNormalizesForwardedText(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()

	if err := f.engine.Enter(ctx, 8, conversation.ProgramSupport); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	if _, err := f.engine.Resume(ctx, 8, conversation.Update{Text: "  my   app\n\n\n\ncrashes  "}); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	if len(f.relay.supports) != 1 || f.relay.supports[0] != "my app\n\ncrashes" {
		t.Errorf("unexpected forwarded texts: %v", f.relay.supports)
	}
}

func TestSupportUsesStoredLocale(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()

	_ = f.store.CreateUser(ctx, &database.User{ChatID: 9, Name: "Kate", Language: "en"})

	if err := f.engine.Enter(ctx, 9, conversation.ProgramSupport); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	intro := f.sender.lastText(9)
	if !strings.Contains(intro, "Support") {
		t.Errorf("expected English support intro, got %q", intro)
	}
}
