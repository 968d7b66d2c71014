package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecoverer(t *testing.T) {
	s := &Server{log: zap.NewNop()}

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name:     "nothing written",
			handler:  func(w http.ResponseWriter, r *http.Request) { panic("boom") },
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal middleware failure"}` + "\n",
		},
		{
			name: "response already started",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("partial"))
				panic("boom")
			},
			wantCode: http.StatusOK,
			wantBody: "partial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/biblioteca", nil)

			s.recoverer(tt.handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRecoverer_ReraisesAbort(t *testing.T) {
	s := &Server{log: zap.NewNop()}
	h := s.recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
