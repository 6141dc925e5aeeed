package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

func TestStoryHandler_ListOrdered(t *testing.T) {
	store := storage.NewMockStore()
	ctx := context.Background()
	assert.NoError(t, store.SaveStory(ctx, &rescue.Story{ID: "s2", RescueID: "r1", Order: 2}))
	assert.NoError(t, store.SaveStory(ctx, &rescue.Story{ID: "s1", RescueID: "r1", Order: 1}))
	assert.NoError(t, store.SaveStory(ctx, &rescue.Story{ID: "other", RescueID: "r2", Order: 1}))
	handler := NewStoryHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/stories?rescue_id=r1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stories []rescue.Story
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&stories))
	assert.Len(t, stories, 2)
	assert.Equal(t, "s1", stories[0].ID)
	assert.Equal(t, "s2", stories[1].ID)
}

func TestStoryHandler_ListRequiresRescueID(t *testing.T) {
	handler := NewStoryHandler(storage.NewMockStore(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/stories", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoryHandler_CreateWithScenePayload(t *testing.T) {
	store := storage.NewMockStore()
	handler := NewStoryHandler(store, testLogger())

	body := `{
		"id": "s1",
		"name": "Arrival",
		"order": 1,
		"rescue_id": "r1",
		"data": {
			"startAt": "0",
			"scene": {
				"backgroundImage": "scenes/street.png",
				"items": [
					{"triggerId": "defib-switch",
					 "position": {"x": 10, "y": 20},
					 "size": {"width": 15, "height": 10}}
				],
				"restritions": [
					{"params": [{"id": "pressure", "value": "20"}]}
				]
			}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/stories", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	saved, err := store.GetStory(context.Background(), "s1")
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	scene := saved.Data.Scene
	assert.Equal(t, "scenes/street.png", scene.BackgroundImage)
	assert.Len(t, scene.Items, 1)
	assert.Equal(t, "defib-switch", scene.Items[0].TriggerID)
	// String-quoted threshold values parse numerically.
	assert.Len(t, scene.Restritions, 1)
	assert.Equal(t, 20.0, scene.Restritions[0].Params[0].Value)
}

func TestStoryHandler_RejectsMissingRescueID(t *testing.T) {
	handler := NewStoryHandler(storage.NewMockStore(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/stories", bytes.NewBufferString(`{"id":"s1"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoryHandler_GetNotFound(t *testing.T) {
	handler := NewStoryHandler(storage.NewMockStore(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/stories/missing", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryHandler_Delete(t *testing.T) {
	store := storage.NewMockStore()
	ctx := context.Background()
	assert.NoError(t, store.SaveStory(ctx, &rescue.Story{ID: "s1", RescueID: "r1", Order: 1}))
	handler := NewStoryHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/stories/s1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	saved, err := store.GetStory(ctx, "s1")
	assert.NoError(t, err)
	assert.Nil(t, saved)
}
