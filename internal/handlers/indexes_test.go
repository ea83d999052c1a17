package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"kbsearch/internal/docstore"
	docstore_mocks "kbsearch/internal/docstore/mocks"
)

func TestIndexesHandler_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := docstore_mocks.NewMockStore(ctrl)
	mockStore.EXPECT().IndexStatus(gomock.Any()).Return([]docstore.IndexState{
		{Name: docstore.KeywordIndexName, Type: "search", Status: "READY", Queryable: true},
		{Name: docstore.VectorIndexName, Type: "vectorSearch", Status: "BUILDING", Queryable: false},
	}, nil)
	mockStore.EXPECT().Count(gomock.Any()).Return(int64(1234), nil)

	handler := NewIndexesHandler(mockStore)

	req := httptest.NewRequest(http.MethodGet, "/api/indexes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, body = %s", w.Code, w.Body.String())
	}

	var resp IndexesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Indexes) != 2 {
		t.Errorf("indexes = %d, want 2", len(resp.Indexes))
	}
	if resp.ChunkCount != 1234 {
		t.Errorf("chunk_count = %d, want 1234", resp.ChunkCount)
	}
	if resp.Indexes[1].Queryable {
		t.Error("building index reported as queryable")
	}
}

func TestIndexesHandler_StoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *docstore_mocks.MockStore)
	}{
		{
			name: "index status fails",
			setup: func(m *docstore_mocks.MockStore) {
				m.EXPECT().IndexStatus(gomock.Any()).Return(nil, errors.New("store down"))
			},
		},
		{
			name: "count fails",
			setup: func(m *docstore_mocks.MockStore) {
				m.EXPECT().IndexStatus(gomock.Any()).Return(nil, nil)
				m.EXPECT().Count(gomock.Any()).Return(int64(0), errors.New("store down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := docstore_mocks.NewMockStore(ctrl)
			tt.setup(mockStore)

			handler := NewIndexesHandler(mockStore)

			req := httptest.NewRequest(http.MethodGet, "/api/indexes", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %v, want 503", w.Code)
			}
		})
	}
}

func TestIndexesHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewIndexesHandler(docstore_mocks.NewMockStore(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/indexes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %v, want 405", w.Code)
	}
}
