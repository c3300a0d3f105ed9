package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/app/apptest"
	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	v1 "stockview/internal/infrastructure/http/v1"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newClient(t *testing.T) (*apiClient, *apptest.Env) {
	t.Helper()
	env := apptest.New(t, true)
	router := v1.NewRouter(v1.RouterConfig{Services: env.Services, Storage: env.Storage})
	return &apiClient{t: t, router: router}, env
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func TestRouter_Health(t *testing.T) {
	c, _ := newClient(t)

	var body map[string]any
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/live", nil, &body))
	assert.Equal(t, "ok", body["status"])

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/ready", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/info", nil, nil))
}

func TestRouter_ItemLifecycle(t *testing.T) {
	c, _ := newClient(t)

	var created map[string]any
	status := c.do(http.MethodPost, "/api/v1/catalog/items", map[string]any{
		"name":         "Speaker",
		"type":         "product",
		"basePrice":    "250.00",
		"warehouseQty": 10,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ITM-00001", created["code"])
	itemID := created["id"].(string)

	var list struct {
		Items      []map[string]any `json:"items"`
		TotalCount int64            `json:"totalCount"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/catalog/items", nil, &list))
	assert.Equal(t, int64(1), list.TotalCount)

	var errBody errorBody
	status = c.do(http.MethodGet, "/api/v1/catalog/items/"+id.New().String(), nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperror.CodeNotFound, errBody.Code)

	status = c.do(http.MethodGet, "/api/v1/catalog/items/not-an-id", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeValidation, errBody.Code)

	var deactivated map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/v1/catalog/items/"+itemID, nil, &deactivated))
	assert.Equal(t, false, deactivated["active"])
}

func TestRouter_RejectsInvalidBody(t *testing.T) {
	c, _ := newClient(t)

	var errBody errorBody
	status := c.do(http.MethodPost, "/api/v1/catalog/items", map[string]any{"name": "Gadget", "type": "gadget"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeValidation, errBody.Code)
}

func TestRouter_DeliveryNoteFlow(t *testing.T) {
	c, env := newClient(t)
	speaker := env.Product(t, "Speaker", 10)
	project := id.New()

	var note map[string]any
	status := c.do(http.MethodPost, "/api/v1/document/delivery-notes", map[string]any{
		"projectId": project.String(),
		"direction": "outbound",
		"lines": []map[string]any{
			{"itemId": speaker.ID.String(), "quantity": 3},
		},
	}, &note)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "draft", note["status"])
	noteID := note["id"].(string)

	var confirmed map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/document/delivery-notes/"+noteID+"/confirm", nil, &confirmed))
	assert.Equal(t, "confirmed", confirmed["status"])

	var errBody errorBody
	status = c.do(http.MethodPut, "/api/v1/document/delivery-notes/"+noteID, map[string]any{
		"date":      "2026-01-02T00:00:00Z",
		"projectId": project.String(),
		"version":   confirmed["version"],
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperror.CodeInvalidState, errBody.Code)

	var views struct {
		Items []struct {
			ID    string `json:"id"`
			Stock *struct {
				Rented    json.Number `json:"rented"`
				Available json.Number `json:"available"`
			} `json:"stock"`
		} `json:"items"`
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/inventory/items", nil, &views))
	require.Equal(t, 1, views.Count)
	require.NotNil(t, views.Items[0].Stock)
	assert.Equal(t, "3.0000", views.Items[0].Stock.Rented.String())
	assert.Equal(t, "7.0000", views.Items[0].Stock.Available.String())

	var dq struct {
		Issues []map[string]any `json:"issues"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/inventory/data-quality", nil, &dq))
	assert.Empty(t, dq.Issues)
}

func TestRouter_SalesDocumentTransitions(t *testing.T) {
	c, env := newClient(t)
	speaker := env.Product(t, "Speaker", 10)

	var doc map[string]any
	status := c.do(http.MethodPost, "/api/v1/document/sales-documents", map[string]any{
		"type":      "quote",
		"projectId": id.New().String(),
		"lines": []map[string]any{
			{"itemId": speaker.ID.String(), "quantity": 2, "unitPrice": "50.00"},
		},
	}, &doc)
	require.Equal(t, http.StatusCreated, status, doc)
	docID := doc["id"].(string)

	for _, action := range []string{"send", "accept"} {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/document/sales-documents/"+docID+"/"+action, nil, nil), action)
	}

	var errBody errorBody
	status = c.do(http.MethodPost, "/api/v1/document/sales-documents/"+docID+"/collect", nil, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, apperror.CodeBusinessRule, errBody.Code)

	var item struct {
		Stock struct {
			Committed json.Number `json:"committed"`
		} `json:"stock"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/inventory/items/"+speaker.ID.String(), nil, &item))
	assert.Equal(t, "2.0000", item.Stock.Committed.String())
}
