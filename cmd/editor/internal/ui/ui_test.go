package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/editor"
	"github.com/stretchr/testify/assert"
)

func TestNotify(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	var _ editor.Notifier = p

	p.Notify(editor.Notification{Level: editor.LevelSuccess, Intent: editor.IntentSave, Message: "Draft saved successfully!"})
	p.Notify(editor.Notification{Level: editor.LevelError, Intent: editor.IntentPublish, Message: "Failed to publish post. Please try again."})

	out := buf.String()
	assert.Contains(t, out, "✓ Draft saved successfully!")
	assert.Contains(t, out, "✗ Failed to publish post.")
}

func TestState(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	doc := &document.Document{ID: "doc_1", Title: "T", Body: "<p>a</p>\n<p>b</p>", Status: document.StatusDraft, CreatedAt: now, UpdatedAt: now}

	cases := []struct {
		name  string
		state editor.State
		want  []string
	}{
		{"loading", editor.State{Loading: true}, []string{"Loading post..."}},
		{"empty", editor.State{}, []string{"No blog post available to edit."}},
		{"draft", editor.State{Document: doc, Draft: editor.EditableDraft{Title: "T", Body: doc.Body}}, []string{"doc_1", "[draft]", "<p>b</p>", "publish, approve, reject"}},
		{"edited", editor.State{Document: doc, Draft: editor.EditableDraft{Title: "X", Body: doc.Body}}, []string{"X", "(unsaved changes)"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).State(tc.state)
			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestState_TerminalOffersOnlySave(t *testing.T) {
	var buf bytes.Buffer
	doc := &document.Document{ID: "doc_1", Status: document.StatusPublished}
	NewPrinter(&buf).State(editor.State{Document: doc})
	assert.Contains(t, buf.String(), "[published]")
	assert.NotContains(t, buf.String(), "approve")
}
