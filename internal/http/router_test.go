package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	docstore_mocks "kbsearch/internal/docstore/mocks"
	retriever_mocks "kbsearch/internal/retriever/mocks"
)

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := &Deps{
		Searcher: retriever_mocks.NewMockSearcher(ctrl),
		Store:    docstore_mocks.NewMockStore(ctrl),
	}

	router := NewRouter(deps)

	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := retriever_mocks.NewMockSearcher(ctrl)
	mockStore := docstore_mocks.NewMockStore(ctrl)

	mockStore.EXPECT().Count(gomock.Any()).Return(int64(0), nil).AnyTimes()
	mockStore.EXPECT().IndexStatus(gomock.Any()).Return(nil, nil).AnyTimes()

	deps := &Deps{
		Searcher: mockSearcher,
		Store:    mockStore,
	}

	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "POST /api/search rejects invalid body",
			method:     http.MethodPost,
			path:       "/api/search",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/health exists",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/indexes exists",
			method:     http.MethodGet,
			path:       "/api/indexes",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/runs returns 404 without run history",
			method:     http.MethodGet,
			path:       "/api/runs",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown route returns 404",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "GET /api/search method not allowed",
			method:     http.MethodGet,
			path:       "/api/search",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
