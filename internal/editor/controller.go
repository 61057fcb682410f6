// Package editor holds the editing state for one document and sequences the
// calls that move it through the workflow.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/client"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
)

// Intent is a user action dispatched to the controller.
type Intent string

const (
	IntentLoad    Intent = "load"
	IntentSave    Intent = "save"
	IntentPublish Intent = "publish"
	IntentApprove Intent = "approve"
	IntentReject  Intent = "reject"
)

const (
	msgBusy       = "Another request is still in progress. Please wait."
	msgLoadFailed = "Failed to load draft post. Please try again later."
)

var successMessages = map[Intent]string{
	IntentSave:    "Draft saved successfully!",
	IntentPublish: "Post published successfully!",
	IntentApprove: "Post approved successfully!",
	IntentReject:  "Post rejected successfully!",
}

var failureMessages = map[Intent]string{
	IntentSave:    "Failed to save draft. Please check your connection and try again.",
	IntentPublish: "Failed to publish post. Please try again.",
	IntentApprove: "Failed to approve post. Please try again.",
	IntentReject:  "Failed to reject post. Please try again.",
}

var errEmptyResult = errors.New("service returned no document")

// EditableDraft is the user's working copy of title and body.
type EditableDraft struct {
	Title string
	Body  string
}

// State is a snapshot of everything the presentation layer renders.
type State struct {
	// Loading is set while the initial fetch is in flight.
	Loading bool
	// Pending names the intent whose call is in flight, empty when idle.
	Pending  Intent
	Document *document.Document
	Draft    EditableDraft
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the collaborator that renders notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// Controller owns the authoritative document and the editable draft. All
// mutations go through its intent methods; at most one service call is in
// flight at a time and intents issued meanwhile are refused with a warning.
type Controller struct {
	client   client.Client
	notifier Notifier
	hub      *hub

	mu    sync.Mutex
	state State
}

// New returns a controller with no document loaded.
func New(c client.Client, opts ...Option) *Controller {
	ctl := &Controller{client: c, hub: newHub()}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe returns a subscription receiving state changes and notifications.
// Events are dropped for a subscriber whose buffer is full.
func (c *Controller) Subscribe(buffer int) *Subscription {
	return c.hub.add(buffer)
}

// LoadDraft fetches the owner's draft and replaces the document and the
// editable draft with it. An owner without a draft leaves both empty.
func (c *Controller) LoadDraft(ctx context.Context, ownerID string) {
	c.mu.Lock()
	if c.state.Pending != "" {
		c.mu.Unlock()
		c.refuse(IntentLoad)
		return
	}
	c.state.Pending = IntentLoad
	c.state.Loading = true
	c.emitState()
	c.mu.Unlock()

	doc, err := c.client.FetchDraft(ctx, ownerID)

	var n *Notification
	c.mu.Lock()
	c.state.Pending = ""
	c.state.Loading = false
	switch {
	case err != nil:
		logger.Errorf("load draft for %q: %v", ownerID, err)
		c.state.Document = nil
		c.state.Draft = EditableDraft{}
		n = &Notification{Level: LevelError, Intent: IntentLoad, Message: msgLoadFailed}
	case doc == nil:
		c.state.Document = nil
		c.state.Draft = EditableDraft{}
		n = &Notification{Level: LevelInfo, Intent: IntentLoad, Message: fmt.Sprintf("No draft found for owner %q.", ownerID)}
	default:
		c.state.Document = doc.Clone()
		c.state.Draft = EditableDraft{Title: doc.Title, Body: doc.Body}
		logger.Debugf("loaded draft %s for %q", doc.ID, ownerID)
	}
	c.emitState()
	c.mu.Unlock()

	if n != nil {
		c.notify(*n)
	}
}

// UpdateTitle edits the working title.
func (c *Controller) UpdateTitle(text string) {
	c.mu.Lock()
	c.state.Draft.Title = text
	c.emitState()
	c.mu.Unlock()
}

// UpdateBody edits the working body.
func (c *Controller) UpdateBody(text string) {
	c.mu.Lock()
	c.state.Draft.Body = text
	c.emitState()
	c.mu.Unlock()
}

// SaveDraft stores the editable draft as the loaded document with status
// draft. It is available from every status, so saving a published, approved
// or rejected document reverts it to draft.
func (c *Controller) SaveDraft(ctx context.Context) {
	c.mu.Lock()
	doc := c.state.Document
	if doc == nil {
		c.mu.Unlock()
		logger.Debugf("save ignored: no document loaded")
		return
	}
	if c.state.Pending != "" {
		c.mu.Unlock()
		c.refuse(IntentSave)
		return
	}
	if doc.Status != document.StatusDraft {
		logger.Warnf("saving document %s reverts status %s to draft", doc.ID, doc.Status)
	}
	in := document.SaveInput{
		ID:      doc.ID,
		OwnerID: doc.OwnerID,
		Title:   c.state.Draft.Title,
		Body:    c.state.Draft.Body,
		Status:  document.StatusDraft,
	}
	c.state.Pending = IntentSave
	c.emitState()
	c.mu.Unlock()

	res, err := c.client.Save(ctx, in)
	c.finish(IntentSave, res, err)
}

// Publish moves a loaded draft to published.
func (c *Controller) Publish(ctx context.Context) {
	c.transition(ctx, IntentPublish, document.TransitionPublish, c.client.Publish)
}

// Approve moves a loaded draft to approved.
func (c *Controller) Approve(ctx context.Context) {
	c.transition(ctx, IntentApprove, document.TransitionApprove, c.client.Approve)
}

// Reject moves a loaded draft to rejected.
func (c *Controller) Reject(ctx context.Context) {
	c.transition(ctx, IntentReject, document.TransitionReject, c.client.Reject)
}

func (c *Controller) transition(ctx context.Context, intent Intent, t document.Transition, call func(context.Context, string) (*document.Document, error)) {
	c.mu.Lock()
	doc := c.state.Document
	if doc == nil || !document.CanTransition(doc.Status, t) {
		c.mu.Unlock()
		if doc == nil {
			logger.Debugf("%s ignored: no document loaded", intent)
		} else {
			logger.Debugf("%s ignored: document %s is %s", intent, doc.ID, doc.Status)
		}
		return
	}
	if c.state.Pending != "" {
		c.mu.Unlock()
		c.refuse(intent)
		return
	}
	id := doc.ID
	c.state.Pending = intent
	c.emitState()
	c.mu.Unlock()

	res, err := call(ctx, id)
	c.finish(intent, res, err)
}

// finish applies the result of a mutating call. On failure the document and
// the editable draft are left as they were.
func (c *Controller) finish(intent Intent, res *document.Document, err error) {
	if err == nil && res == nil {
		err = errEmptyResult
	}

	var n Notification
	c.mu.Lock()
	c.state.Pending = ""
	if err != nil {
		logger.Errorf("%s failed: %v", intent, err)
		n = Notification{Level: LevelError, Intent: intent, Message: failureMessages[intent]}
	} else {
		c.state.Document = res.Clone()
		n = Notification{Level: LevelSuccess, Intent: intent, Message: successMessages[intent]}
		logger.Infof("%s: document %s is now %s", intent, res.ID, res.Status)
	}
	c.emitState()
	c.mu.Unlock()

	c.notify(n)
}

func (c *Controller) refuse(intent Intent) {
	logger.Warnf("%s refused: another request is in flight", intent)
	c.notify(Notification{Level: LevelWarning, Intent: intent, Message: msgBusy})
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() State {
	s := c.state
	s.Document = s.Document.Clone()
	return s
}

// emitState must be called with c.mu held so subscribers see snapshots in
// the order the changes were made. broadcast never blocks.
func (c *Controller) emitState() {
	c.hub.broadcast(Event{Kind: EventState, State: c.snapshot()})
}

func (c *Controller) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
	c.hub.broadcast(Event{Kind: EventNotification, Notification: n})
}
