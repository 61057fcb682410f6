package editor

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/client"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/fixtures"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClient records calls and answers from canned documents.
type fakeClient struct {
	mu    sync.Mutex
	calls []string
	saved []document.SaveInput

	draft *document.Document
	fail  map[string]error
	// gate, when set, blocks Save until it is closed.
	gate chan struct{}
}

func (f *fakeClient) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeClient) FetchDraft(_ context.Context, ownerID string) (*document.Document, error) {
	if err := f.record("fetch"); err != nil {
		return nil, err
	}
	if ownerID == "pending" || f.draft == nil {
		return nil, nil
	}
	return f.draft.Clone(), nil
}

func (f *fakeClient) Save(_ context.Context, in document.SaveInput) (*document.Document, error) {
	if f.gate != nil {
		<-f.gate
	}
	if err := f.record("save"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.saved = append(f.saved, in)
	f.mu.Unlock()
	return &document.Document{
		ID:        in.ID,
		OwnerID:   in.OwnerID,
		Title:     in.Title,
		Body:      in.Body,
		Status:    in.Status,
		CreatedAt: t0,
		UpdatedAt: t0.Add(time.Minute),
	}, nil
}

func (f *fakeClient) move(op, id string, to document.Status) (*document.Document, error) {
	if err := f.record(op); err != nil {
		return nil, err
	}
	return &document.Document{ID: id, Title: "server title", Body: "server body", Status: to, CreatedAt: t0, UpdatedAt: t0.Add(time.Hour)}, nil
}

func (f *fakeClient) Publish(_ context.Context, id string) (*document.Document, error) {
	return f.move("publish", id, document.StatusPublished)
}

func (f *fakeClient) Approve(_ context.Context, id string) (*document.Document, error) {
	return f.move("approve", id, document.StatusApproved)
}

func (f *fakeClient) Reject(_ context.Context, id string) (*document.Document, error) {
	return f.move("reject", id, document.StatusRejected)
}

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func sampleDraft() *document.Document {
	return &document.Document{ID: "doc_1", OwnerID: "agent-1", Title: "Hello", Body: "<p>world</p>", Status: document.StatusDraft, CreatedAt: t0, UpdatedAt: t0}
}

func newLoaded(t *testing.T) (*Controller, *fakeClient, *recorder) {
	t.Helper()
	fc := &fakeClient{draft: sampleDraft()}
	rec := &recorder{}
	c := New(fc, WithNotifier(rec))
	c.LoadDraft(context.Background(), "agent-1")
	require.NotNil(t, c.State().Document)
	return c, fc, rec
}

func TestLoadDraft_Pending(t *testing.T) {
	fc := &fakeClient{draft: sampleDraft()}
	rec := &recorder{}
	c := New(fc, WithNotifier(rec))

	c.LoadDraft(context.Background(), "pending")

	st := c.State()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Document)
	assert.Equal(t, EditableDraft{}, st.Draft)
	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelInfo, notes[0].Level)
	assert.Contains(t, notes[0].Message, "No draft found")
}

func TestLoadDraft_SeedsEditableDraft(t *testing.T) {
	c, _, rec := newLoaded(t)
	st := c.State()
	assert.Equal(t, document.StatusDraft, st.Document.Status)
	assert.Equal(t, EditableDraft{Title: "Hello", Body: "<p>world</p>"}, st.Draft)
	assert.Empty(t, rec.all(), "a successful load is silent")
}

func TestLoadDraft_FailureClearsState(t *testing.T) {
	c, fc, rec := newLoaded(t)
	fc.fail = map[string]error{"fetch": &client.Error{Op: "fetch draft"}}

	c.LoadDraft(context.Background(), "agent-1")

	st := c.State()
	assert.Nil(t, st.Document)
	assert.Equal(t, EditableDraft{}, st.Draft)
	assert.False(t, st.Loading)
	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, IntentLoad, notes[0].Intent)
}

func TestSaveDraft_SendsEditedTitle(t *testing.T) {
	c, fc, rec := newLoaded(t)
	c.UpdateTitle("X")

	c.SaveDraft(context.Background())

	require.Len(t, fc.saved, 1)
	assert.Equal(t, document.SaveInput{ID: "doc_1", OwnerID: "agent-1", Title: "X", Body: "<p>world</p>", Status: document.StatusDraft}, fc.saved[0])
	st := c.State()
	assert.Equal(t, "X", st.Document.Title)
	assert.Equal(t, document.StatusDraft, st.Document.Status)
	assert.Equal(t, t0.Add(time.Minute), st.Document.UpdatedAt, "result replaces the document in full")
	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, Notification{Level: LevelSuccess, Intent: IntentSave, Message: "Draft saved successfully!"}, notes[0])
}

func TestMutatingFailure_LeavesStateUnchanged(t *testing.T) {
	for _, op := range []string{"save", "publish", "approve", "reject"} {
		t.Run(op, func(t *testing.T) {
			c, fc, rec := newLoaded(t)
			c.UpdateBody("edited body")
			before := c.State()
			fc.fail = map[string]error{op: &client.Error{Op: op}}

			ctx := context.Background()
			switch op {
			case "save":
				c.SaveDraft(ctx)
			case "publish":
				c.Publish(ctx)
			case "approve":
				c.Approve(ctx)
			case "reject":
				c.Reject(ctx)
			}

			assert.Equal(t, before, c.State())
			notes := rec.all()
			require.Len(t, notes, 1)
			assert.Equal(t, LevelError, notes[0].Level)
			assert.Equal(t, Intent(op), notes[0].Intent)
		})
	}
}

func TestPublish_ThenTerminal(t *testing.T) {
	c, fc, rec := newLoaded(t)
	ctx := context.Background()

	c.Publish(ctx)
	assert.Equal(t, document.StatusPublished, c.State().Document.Status)
	assert.Equal(t, "server title", c.State().Document.Title)
	assert.Equal(t, "Hello", c.State().Draft.Title, "editable draft is kept")

	c.Publish(ctx)
	c.Approve(ctx)
	c.Reject(ctx)
	assert.Equal(t, 1, fc.count("publish"))
	assert.Zero(t, fc.count("approve"))
	assert.Zero(t, fc.count("reject"))
	assert.Len(t, rec.all(), 1)

	// saving is still allowed and reverts to draft
	c.SaveDraft(ctx)
	assert.Equal(t, document.StatusDraft, c.State().Document.Status)
}

func TestApproveAndReject(t *testing.T) {
	c, _, rec := newLoaded(t)
	c.Approve(context.Background())
	assert.Equal(t, document.StatusApproved, c.State().Document.Status)

	c2, _, rec2 := newLoaded(t)
	c2.Reject(context.Background())
	assert.Equal(t, document.StatusRejected, c2.State().Document.Status)

	assert.Equal(t, "Post approved successfully!", rec.all()[0].Message)
	assert.Equal(t, "Post rejected successfully!", rec2.all()[0].Message)
}

func TestIntentsWithoutDocumentAreNoops(t *testing.T) {
	fc := &fakeClient{}
	rec := &recorder{}
	c := New(fc, WithNotifier(rec))
	ctx := context.Background()

	c.SaveDraft(ctx)
	c.Publish(ctx)
	c.Approve(ctx)
	c.Reject(ctx)

	assert.Empty(t, fc.calls)
	assert.Empty(t, rec.all())
}

func TestConcurrentIntentIsRefused(t *testing.T) {
	c, fc, rec := newLoaded(t)
	fc.gate = make(chan struct{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SaveDraft(ctx)
	}()
	require.Eventually(t, func() bool { return c.State().Pending == IntentSave }, time.Second, 5*time.Millisecond)

	c.Publish(ctx)
	c.LoadDraft(ctx, "agent-1")
	assert.Zero(t, fc.count("publish"))
	assert.Equal(t, 1, fc.count("fetch"), "only the initial load reached the client")

	close(fc.gate)
	<-done

	notes := rec.all()
	require.Len(t, notes, 3)
	assert.Equal(t, LevelWarning, notes[0].Level)
	assert.Equal(t, IntentPublish, notes[0].Intent)
	assert.Equal(t, LevelWarning, notes[1].Level)
	assert.Equal(t, IntentLoad, notes[1].Intent)
	assert.Equal(t, LevelSuccess, notes[2].Level)
	assert.Empty(t, c.State().Pending)

	// idle again: publish goes through
	c.Publish(ctx)
	assert.Equal(t, 1, fc.count("publish"))
}

func TestEditsDuringPendingSaveAreKept(t *testing.T) {
	c, fc, _ := newLoaded(t)
	fc.gate = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SaveDraft(context.Background())
	}()
	require.Eventually(t, func() bool { return c.State().Pending == IntentSave }, time.Second, 5*time.Millisecond)
	c.UpdateTitle("typed while saving")
	close(fc.gate)
	<-done

	st := c.State()
	assert.Equal(t, "typed while saving", st.Draft.Title)
	assert.Equal(t, "Hello", st.Document.Title)
}

func TestStateIsSnapshot(t *testing.T) {
	c, _, _ := newLoaded(t)
	st := c.State()
	st.Document.Title = "mutated"
	assert.Equal(t, "Hello", c.State().Document.Title)
}

func TestSubscribe(t *testing.T) {
	fc := &fakeClient{draft: sampleDraft()}
	c := New(fc)
	sub := c.Subscribe(16)

	c.LoadDraft(context.Background(), "agent-1")
	c.Publish(context.Background())

	var kinds []EventKind
	var last State
	var note Notification
	for len(kinds) < 5 {
		select {
		case e := <-sub.C:
			kinds = append(kinds, e.Kind)
			if e.Kind == EventState {
				last = e.State
			} else {
				note = e.Notification
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d events", len(kinds))
		}
	}
	// load: loading, loaded; publish: pending, result, notification
	assert.Equal(t, []EventKind{EventState, EventState, EventState, EventState, EventNotification}, kinds)
	assert.Equal(t, document.StatusPublished, last.Document.Status)
	assert.Equal(t, LevelSuccess, note.Level)

	sub.Close()
	_, ok := <-sub.C
	assert.False(t, ok)
	sub.Close()
}

func TestSubscribe_SlowSubscriberDoesNotBlock(t *testing.T) {
	c := New(&fakeClient{draft: sampleDraft()})
	sub := c.Subscribe(1)
	defer sub.Close()

	c.LoadDraft(context.Background(), "agent-1")
	for i := 0; i < 10; i++ {
		c.UpdateTitle("t")
	}
	assert.Len(t, sub.C, 1)
}

func TestSubscribe_ConcurrentEditsArriveInOrder(t *testing.T) {
	const writers, edits = 16, 50
	for round := 0; round < 20; round++ {
		c := New(&fakeClient{})
		sub := c.Subscribe(writers * edits)

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < edits; i++ {
					c.UpdateTitle(strconv.Itoa(w) + "-" + strconv.Itoa(i))
				}
			}(w)
		}
		wg.Wait()
		sub.Close()

		var last State
		n := 0
		for e := range sub.C {
			if e.Kind == EventState {
				last = e.State
				n++
			}
		}
		require.Equal(t, writers*edits, n)
		require.Equal(t, c.State().Draft.Title, last.Draft.Title, "round %d", round)
	}
}

func TestController_WithLocalClient(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMemoryService()
	_, err := fixtures.Seed(ctx, svc, fixtures.DefaultOwner)
	require.NoError(t, err)

	rec := &recorder{}
	c := New(client.NewLocalClient(svc, 0), WithNotifier(rec))
	c.LoadDraft(ctx, fixtures.DefaultOwner)
	require.NotNil(t, c.State().Document)
	assert.Equal(t, fixtures.SampleTitle, c.State().Draft.Title)
	created := c.State().Document.CreatedAt

	c.UpdateTitle("X")
	c.SaveDraft(ctx)
	st := c.State()
	assert.Equal(t, "X", st.Document.Title)
	assert.True(t, st.Document.CreatedAt.Equal(created))
	assert.False(t, st.Document.UpdatedAt.Before(st.Document.CreatedAt))

	c.Publish(ctx)
	assert.Equal(t, document.StatusPublished, c.State().Document.Status)

	stored, err := svc.Get(ctx, st.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPublished, stored.Status)
	assert.Len(t, rec.all(), 2)
}
