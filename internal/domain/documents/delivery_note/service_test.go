package delivery_note_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/core/types"
	"stockview/internal/domain"
	"stockview/internal/domain/documents/delivery_note"
	"stockview/pkg/numerator"
)

func qty(n int64) types.Quantity { return types.NewQuantityFromInt(n) }

func draft(t *testing.T, env *apptest.Env, project id.ID, dir delivery_note.Direction, lines ...delivery_note.LineInput) *delivery_note.DeliveryNote {
	t.Helper()
	note := delivery_note.NewDeliveryNote(project, dir)
	require.NoError(t, note.SetLines(lines))
	require.NoError(t, env.Services.DeliveryNotes.Create(context.Background(), note))
	return note
}

func TestService_CreateAssignsNumberAndNotifies(t *testing.T) {
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	project := id.New()
	env.Changes.Reset()

	note := draft(t, env, project, delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(3)})

	assert.True(t, strings.HasPrefix(note.Number, delivery_note.NumberPrefix+"-"), note.Number)
	assert.Equal(t, delivery_note.StatusDraft, note.Status)

	scope := env.Changes.Last(t)
	assert.Equal(t, domain.ChangeDeliveryNote, scope.Kind)
	assert.Equal(t, "created", scope.Action)
	assert.Equal(t, note.ID, scope.RecordID)
	assert.Equal(t, []id.ID{speaker.ID}, scope.ItemIDs)
	assert.Equal(t, []id.ID{project}, scope.ProjectIDs)

	stored, err := env.Services.DeliveryNotes.GetByID(context.Background(), note.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, qty(3), stored.Lines[0].Quantity)
}

func TestService_CreateRejectsUnknownOrInactiveItem(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)

	note := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, note.SetLines([]delivery_note.LineInput{{ItemID: id.New(), Quantity: qty(1)}}))
	err := env.Services.DeliveryNotes.Create(ctx, note)
	assert.True(t, apperror.IsValidation(err), "got %v", err)

	retired := env.Product(t, "Retired", 1)
	_, err = env.Services.Items.Deactivate(ctx, retired.ID)
	require.NoError(t, err)

	note = delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, note.SetLines([]delivery_note.LineInput{{ItemID: retired.ID, Quantity: qty(1)}}))
	err = env.Services.DeliveryNotes.Create(ctx, note)
	assert.True(t, apperror.IsValidation(err), "got %v", err)
}

func TestService_FailedCreateKeepsSequenceGapless(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)

	bad := delivery_note.NewDeliveryNote(id.New(), delivery_note.DirectionOutbound)
	require.NoError(t, bad.SetLines([]delivery_note.LineInput{{ItemID: id.New(), Quantity: qty(1)}}))
	require.Error(t, env.Services.DeliveryNotes.Create(ctx, bad))
	assert.Empty(t, bad.Number)

	note := draft(t, env, id.New(), delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})
	assert.Equal(t, int64(1), numerator.ParseNumber(note.Number), note.Number)

	next := draft(t, env, id.New(), delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})
	assert.Equal(t, int64(2), numerator.ParseNumber(next.Number), next.Number)
}

func TestService_ConfirmedNoteIsImmutable(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	svc := env.Services.DeliveryNotes

	note := draft(t, env, id.New(), delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(2)})

	confirmed, err := svc.Confirm(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, delivery_note.StatusConfirmed, confirmed.Status)

	_, err = svc.Confirm(ctx, note.ID)
	assert.True(t, apperror.IsInvalidState(err), "confirm twice: %v", err)

	_, err = svc.CreateLine(ctx, note.ID, delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})
	assert.True(t, apperror.IsInvalidState(err), "create line: %v", err)

	_, err = svc.UpdateLine(ctx, note.ID, confirmed.Lines[0].LineID, delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(5)})
	assert.True(t, apperror.IsInvalidState(err), "update line: %v", err)

	err = svc.DeleteLine(ctx, note.ID, confirmed.Lines[0].LineID)
	assert.True(t, apperror.IsInvalidState(err), "delete line: %v", err)

	confirmed.Comment = "late edit"
	err = svc.Update(ctx, confirmed)
	assert.True(t, apperror.IsInvalidState(err), "update: %v", err)

	stored, err := svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, qty(2), stored.Lines[0].Quantity)
	assert.Empty(t, stored.Comment)
}

func TestService_ConfirmRequiresLines(t *testing.T) {
	env := apptest.New(t, false)
	note := draft(t, env, id.New(), delivery_note.DirectionOutbound)

	_, err := env.Services.DeliveryNotes.Confirm(context.Background(), note.ID)
	assert.True(t, apperror.IsValidation(err), "got %v", err)
}

func TestService_CancelFromConfirmed(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	svc := env.Services.DeliveryNotes

	note := draft(t, env, id.New(), delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(2)})
	_, err := svc.Confirm(ctx, note.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, delivery_note.StatusCancelled, cancelled.Status)
	assert.Equal(t, "cancelled", env.Changes.Last(t).Action)

	_, err = svc.Cancel(ctx, note.ID)
	assert.True(t, apperror.IsInvalidState(err), "got %v", err)
}

func TestService_LineOperations(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	mixer := env.Product(t, "Mixer", 2)
	svc := env.Services.DeliveryNotes

	note := draft(t, env, id.New(), delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})

	added, err := svc.CreateLine(ctx, note.ID, delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(4)})
	require.NoError(t, err)
	assert.Equal(t, 2, added.LineNo)

	updated, err := svc.UpdateLine(ctx, note.ID, added.LineID, delivery_note.LineInput{ItemID: mixer.ID, Quantity: qty(1)})
	require.NoError(t, err)
	assert.Equal(t, mixer.ID, updated.ItemID)

	// The scope covers the item the line referenced before the edit.
	scope := env.Changes.Last(t)
	assert.Equal(t, "line_updated", scope.Action)
	assert.ElementsMatch(t, []id.ID{speaker.ID, mixer.ID}, scope.ItemIDs)

	_, err = svc.UpdateLine(ctx, note.ID, id.New(), delivery_note.LineInput{ItemID: mixer.ID, Quantity: qty(1)})
	assert.True(t, apperror.IsNotFound(err), "got %v", err)

	stored, err := svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteLine(ctx, note.ID, stored.Lines[0].LineID))

	stored, err = svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 1, stored.Lines[0].LineNo)
	assert.Equal(t, mixer.ID, stored.Lines[0].ItemID)

	scope = env.Changes.Last(t)
	assert.Equal(t, "line_deleted", scope.Action)
	assert.Contains(t, scope.ItemIDs, speaker.ID)
}

func TestService_ReturnReferenceChecks(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	project := id.New()

	out := draft(t, env, project, delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(2)})

	tests := []struct {
		name     string
		project  id.ID
		returnOf id.ID
	}{
		{"unknown note", project, id.New()},
		{"other project", id.New(), out.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := delivery_note.NewDeliveryNote(tt.project, delivery_note.DirectionInbound)
			returnOf := tt.returnOf
			back.ReturnOfID = &returnOf
			require.NoError(t, back.SetLines([]delivery_note.LineInput{{ItemID: speaker.ID, Quantity: qty(2)}}))

			err := env.Services.DeliveryNotes.Create(ctx, back)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}

	back := delivery_note.NewDeliveryNote(project, delivery_note.DirectionInbound)
	back.ReturnOfID = &out.ID
	require.NoError(t, back.SetLines([]delivery_note.LineInput{{ItemID: speaker.ID, Quantity: qty(2)}}))
	require.NoError(t, env.Services.DeliveryNotes.Create(ctx, back))
}

func TestService_UpdateDraftWidensScope(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	mixer := env.Product(t, "Mixer", 2)
	before, after := id.New(), id.New()
	svc := env.Services.DeliveryNotes

	note := draft(t, env, before, delivery_note.DirectionOutbound,
		delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})

	edit, err := svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	edit.ProjectID = after
	require.NoError(t, edit.SetLines([]delivery_note.LineInput{{ItemID: mixer.ID, Quantity: qty(1)}}))
	require.NoError(t, svc.Update(ctx, edit))
	assert.Equal(t, 2, edit.Version)

	scope := env.Changes.Last(t)
	assert.Equal(t, "updated", scope.Action)
	assert.ElementsMatch(t, []id.ID{speaker.ID, mixer.ID}, scope.ItemIDs)
	assert.ElementsMatch(t, []id.ID{before, after}, scope.ProjectIDs)

	stale, err := svc.GetByID(ctx, note.ID)
	require.NoError(t, err)
	stale.Version = 1
	err = svc.Update(ctx, stale)
	assert.True(t, apperror.IsConcurrentModification(err), "got %v", err)
}

func TestService_ListFilters(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	p1, p2 := id.New(), id.New()

	draft(t, env, p1, delivery_note.DirectionOutbound, delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})
	confirmed := draft(t, env, p2, delivery_note.DirectionOutbound, delivery_note.LineInput{ItemID: speaker.ID, Quantity: qty(1)})
	_, err := env.Services.DeliveryNotes.Confirm(ctx, confirmed.ID)
	require.NoError(t, err)

	status := delivery_note.StatusConfirmed
	res, err := env.Services.DeliveryNotes.List(ctx, delivery_note.ListFilter{
		ListFilter: domain.DefaultListFilter(),
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, confirmed.ID, res.Items[0].ID)

	res, err = env.Services.DeliveryNotes.List(ctx, delivery_note.ListFilter{
		ListFilter: domain.DefaultListFilter(),
		ProjectID:  &p1,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, p1, res.Items[0].ProjectID)
}
