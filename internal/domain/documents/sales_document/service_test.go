package sales_document_test

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
	"stockview/internal/domain/documents/sales_document"
)

func create(t *testing.T, env *apptest.Env, docType sales_document.DocType, lines ...sales_document.LineInput) *sales_document.SalesDocument {
	t.Helper()
	doc := sales_document.NewSalesDocument(docType, id.New())
	require.NoError(t, doc.SetLines(lines))
	require.NoError(t, env.Services.SalesDocuments.Create(context.Background(), doc))
	return doc
}

func TestService_CreateComputesTotalsAndNumber(t *testing.T) {
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	setup := env.Service(t, "Setup")

	doc := create(t, env, sales_document.TypeInvoice,
		sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(3), UnitPrice: types.MustMoney("19.99")},
		sales_document.LineInput{ItemID: setup.ID, Quantity: types.NewQuantityFromFloat64(1.5), UnitPrice: types.MustMoney("80")},
	)

	assert.True(t, strings.HasPrefix(doc.Number, "INV-"), doc.Number)
	assert.True(t, doc.Lines[0].LineTotal.Equal(types.MustMoney("59.97")), doc.Lines[0].LineTotal.String())
	assert.True(t, doc.Lines[1].LineTotal.Equal(types.MustMoney("120")), doc.Lines[1].LineTotal.String())
	assert.True(t, doc.Total.Equal(types.MustMoney("179.97")), doc.Total.String())

	stored, err := env.Services.SalesDocuments.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(doc.Total))
	assert.Len(t, stored.Lines, 2)
}

func TestService_NumberPrefixPerType(t *testing.T) {
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	line := sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1")}

	tests := map[sales_document.DocType]string{
		sales_document.TypeQuote:    "QT-",
		sales_document.TypeProforma: "PF-",
		sales_document.TypeInvoice:  "INV-",
	}
	for docType, prefix := range tests {
		doc := create(t, env, docType, line)
		assert.True(t, strings.HasPrefix(doc.Number, prefix), "%s: %s", docType, doc.Number)
	}
}

func TestService_FailedCreateDoesNotTakeNumber(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)

	bad := sales_document.NewSalesDocument(sales_document.TypeInvoice, id.New())
	require.NoError(t, bad.SetLines([]sales_document.LineInput{
		{ItemID: id.New(), Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1")},
	}))
	require.Error(t, env.Services.SalesDocuments.Create(ctx, bad))
	assert.Empty(t, bad.Number)

	doc := create(t, env, sales_document.TypeInvoice,
		sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1")})
	assert.True(t, strings.HasSuffix(doc.Number, "-00001"), doc.Number)
}

func TestService_Transitions(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	svc := env.Services.SalesDocuments
	line := sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("10")}

	t.Run("invoice lifecycle", func(t *testing.T) {
		doc := create(t, env, sales_document.TypeInvoice, line)

		sent, err := svc.Send(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, sales_document.StatusSent, sent.Status)

		collected, err := svc.Collect(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, sales_document.StatusCollected, collected.Status)
		assert.Equal(t, "collected", env.Changes.Last(t).Action)

		_, err = svc.Cancel(ctx, doc.ID)
		assert.True(t, apperror.IsInvalidState(err), "cancel after collect: %v", err)
	})

	t.Run("quotes cannot be collected", func(t *testing.T) {
		doc := create(t, env, sales_document.TypeQuote, line)
		_, err := svc.Accept(ctx, doc.ID)
		require.NoError(t, err)

		_, err = svc.Collect(ctx, doc.ID)
		assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule), "got %v", err)

		stored, err := svc.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, sales_document.StatusAccepted, stored.Status)
	})

	t.Run("send requires lines", func(t *testing.T) {
		doc := create(t, env, sales_document.TypeQuote)
		_, err := svc.Send(ctx, doc.ID)
		assert.True(t, apperror.IsValidation(err), "got %v", err)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := svc.Send(ctx, id.New())
		assert.True(t, apperror.IsNotFound(err), "got %v", err)
	})
}

func TestService_UpdateOnlyDrafts(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	svc := env.Services.SalesDocuments

	doc := create(t, env, sales_document.TypeQuote,
		sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("10")})

	edit, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, edit.SetLines([]sales_document.LineInput{
		{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(4), UnitPrice: types.MustMoney("10")},
	}))
	require.NoError(t, svc.Update(ctx, edit))
	assert.True(t, edit.Total.Equal(types.MustMoney("40")), edit.Total.String())

	_, err = svc.Send(ctx, doc.ID)
	require.NoError(t, err)

	sent, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	err = sent.SetLines(nil)
	assert.True(t, apperror.IsInvalidState(err), "set lines on sent: %v", err)

	sent.Comment = "edited"
	err = svc.Update(ctx, sent)
	assert.True(t, apperror.IsInvalidState(err), "update sent: %v", err)
}

func TestService_CreateRejectsUnknownItem(t *testing.T) {
	env := apptest.New(t, false)
	doc := sales_document.NewSalesDocument(sales_document.TypeQuote, id.New())
	require.NoError(t, doc.SetLines([]sales_document.LineInput{
		{ItemID: id.New(), Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1")},
	}))

	err := env.Services.SalesDocuments.Create(context.Background(), doc)
	assert.True(t, apperror.IsValidation(err), "got %v", err)
}

func TestService_ListByType(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, false)
	speaker := env.Product(t, "Speaker", 10)
	line := sales_document.LineInput{ItemID: speaker.ID, Quantity: types.NewQuantityFromInt(1), UnitPrice: types.MustMoney("1")}

	create(t, env, sales_document.TypeQuote, line)
	invoice := create(t, env, sales_document.TypeInvoice, line)

	docType := sales_document.TypeInvoice
	res, err := env.Services.SalesDocuments.List(ctx, sales_document.ListFilter{
		ListFilter: domain.DefaultListFilter(),
		Type:       &docType,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, invoice.ID, res.Items[0].ID)
	assert.Equal(t, int64(1), res.TotalCount)
}
