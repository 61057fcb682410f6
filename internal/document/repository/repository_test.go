package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/stretchr/testify/require"
)

func newDoc(id, owner string, status document.Status, updated time.Time) *document.Document {
	return &document.Document{
		ID:        id,
		OwnerID:   owner,
		Title:     "title " + id,
		Body:      "<p>body " + id + "</p>",
		Status:    status,
		CreatedAt: updated.Add(-time.Minute),
		UpdatedAt: updated,
	}
}

// exerciseRepository runs the behaviour every Repository implementation shares.
func exerciseRepository(t *testing.T, r Repository) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, r.Ping(ctx))

	d := newDoc("doc_1", "agent-1", document.StatusDraft, base)
	id, err := r.Create(ctx, d)
	require.NoError(t, err)
	require.Equal(t, "doc_1", id)

	_, err = r.Create(ctx, d)
	require.Error(t, err, "duplicate ids must be rejected")

	got, err := r.Get(ctx, "doc_1")
	require.NoError(t, err)
	require.Equal(t, d, got)

	// returned values are copies
	got.Title = "mutated"
	again, err := r.Get(ctx, "doc_1")
	require.NoError(t, err)
	require.Equal(t, "title doc_1", again.Title)

	_, err = r.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	// newest draft of the owner wins, non-drafts and other owners are ignored
	_, err = r.Create(ctx, newDoc("doc_2", "agent-1", document.StatusDraft, base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = r.Create(ctx, newDoc("doc_3", "agent-1", document.StatusPublished, base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = r.Create(ctx, newDoc("doc_4", "agent-2", document.StatusDraft, base.Add(3*time.Hour)))
	require.NoError(t, err)

	draft, err := r.FindDraftByOwner(ctx, "agent-1")
	require.NoError(t, err)
	require.Equal(t, "doc_2", draft.ID)

	_, err = r.FindDraftByOwner(ctx, "pending")
	require.ErrorIs(t, err, ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	require.Equal(t, "doc_4", list[0].ID, "list is ordered by most recent update")

	upd := draft.Clone()
	upd.Status = document.StatusApproved
	upd.Title = "approved title"
	upd.UpdatedAt = base.Add(4 * time.Hour)
	require.NoError(t, r.Update(ctx, upd))
	got, err = r.Get(ctx, "doc_2")
	require.NoError(t, err)
	require.Equal(t, upd, got)

	draft, err = r.FindDraftByOwner(ctx, "agent-1")
	require.NoError(t, err)
	require.Equal(t, "doc_1", draft.ID)

	require.ErrorIs(t, r.Update(ctx, newDoc("missing", "agent-1", document.StatusDraft, base)), ErrNotFound)

	require.NoError(t, r.Delete(ctx, "doc_1"))
	_, err = r.Get(ctx, "doc_1")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "doc_1"), ErrNotFound)

	_, err = r.FindDraftByOwner(ctx, "agent-1")
	require.ErrorIs(t, err, ErrNotFound)
}
