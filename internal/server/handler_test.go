package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

type mockOps struct {
	mock.Mock
}

func (m *mockOps) Extract(ctx context.Context, paths []string) (string, error) {
	args := m.Called(ctx, paths)
	return args.String(0), args.Error(1)
}

func (m *mockOps) BuildFilteredExport(ctx context.Context, paths []string, categories []uint8, output string) (int, error) {
	args := m.Called(ctx, paths, categories, output)
	return args.Int(0), args.Error(1)
}

func (m *mockOps) Categories(ctx context.Context, paths []string) ([]models.Category, error) {
	args := m.Called(ctx, paths)
	if v := args.Get(0); v != nil {
		return v.([]models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apperr.Payload `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, ops Operations, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := Setup(NewHandler(ops, nil), nil)
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestLiveness(t *testing.T) {
	r := Setup(NewHandler(new(mockOps), nil), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	r := Setup(NewHandler(new(mockOps), map[string][]uint8{"electronics": {1, 2}}), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "electronics")
}

func TestExtract_OK(t *testing.T) {
	ops := new(mockOps)
	ops.On("Extract", mock.Anything, []string{"a.csv"}).Return(`[{"description":"Widget"}]`, nil)

	w, env := do(t, ops, http.MethodPost, "/api/extract", `{"paths":["a.csv"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[{"description":"Widget"}]`, string(env.Data))
	ops.AssertExpectations(t)
}

func TestExtract_ErrorKinds(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		kind   apperr.Kind
	}{
		{apperr.Wrap(apperr.KindInvalidInput, apperr.ErrNoPaths), http.StatusBadRequest, apperr.KindInvalidInput},
		{apperr.New(apperr.KindCSV, "bare quote"), http.StatusUnprocessableEntity, apperr.KindCSV},
		{apperr.New(apperr.KindUTF8, "bad bytes"), http.StatusUnprocessableEntity, apperr.KindUTF8},
		{errors.New("boom"), http.StatusInternalServerError, apperr.KindIO},
	}

	for _, tc := range testCases {
		ops := new(mockOps)
		ops.On("Extract", mock.Anything, mock.Anything).Return("", tc.err)

		w, env := do(t, ops, http.MethodPost, "/api/extract", `{"paths":[]}`)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, tc.kind, env.Error.Kind)
		assert.NotEmpty(t, env.Error.Message)
	}
}

func TestExtract_MalformedBody(t *testing.T) {
	ops := new(mockOps)

	w, env := do(t, ops, http.MethodPost, "/api/extract", `{"paths":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperr.KindInvalidInput, env.Error.Kind)
	ops.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestExport_OK(t *testing.T) {
	ops := new(mockOps)
	ops.On("BuildFilteredExport", mock.Anything, []string{"a.csv", "b.csv"}, []uint8{1, 23}, "out.xlsx").Return(7, nil)

	w, env := do(t, ops, http.MethodPost, "/api/export",
		`{"paths":["a.csv","b.csv"],"categories":[1,23],"output":"out.xlsx"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"output":"out.xlsx","rows":7}`, string(env.Data))
	ops.AssertExpectations(t)
}

func TestExport_RejectsBadInput(t *testing.T) {
	for _, body := range []string{
		`{"paths":["a.csv"],"categories":[1]}`,
		`{"paths":["a.csv"],"categories":[256],"output":"o.csv"}`,
		`{"paths":["a.csv"],"categories":[-1],"output":"o.csv"}`,
	} {
		ops := new(mockOps)

		w, env := do(t, ops, http.MethodPost, "/api/export", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		require.NotNil(t, env.Error, body)
		assert.Equal(t, apperr.KindInvalidInput, env.Error.Kind)
		ops.AssertNotCalled(t, "BuildFilteredExport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestCategories_OK(t *testing.T) {
	ops := new(mockOps)
	ops.On("Categories", mock.Anything, []string{"a.csv"}).Return([]models.Category{
		{ID: 3, Description: "Electronics", Count: 2},
	}, nil)

	w, env := do(t, ops, http.MethodPost, "/api/categories", `{"paths":["a.csv"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":3,"description":"Electronics","count":2}]`, string(env.Data))
}

func TestCategories_EmptyIsArray(t *testing.T) {
	ops := new(mockOps)
	ops.On("Categories", mock.Anything, mock.Anything).Return(nil, nil)

	_, env := do(t, ops, http.MethodPost, "/api/categories", `{"paths":["a.csv"]}`)

	assert.JSONEq(t, `[]`, string(env.Data))
}
