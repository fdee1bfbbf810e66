package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errSoldOut = stderrors.New("sold out")

func soldOutMapper(err error) (ProblemDetail, bool) {
	if stderrors.Is(err, errSoldOut) {
		return ErrConflict.WithDetail("Product is sold out"), true
	}
	return ProblemDetail{}, false
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/products/coral", nil)

	NewChainedResponder(soldOutMapper).RespondError(c, err)

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondError_MappedError(t *testing.T) {
	w, body := respond(t, fmt.Errorf("add to order: %w", errSoldOut))

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	require.Equal(t, TypeConflict, body.Type)
	require.Equal(t, "Product is sold out", body.Detail)
	require.Equal(t, "/api/products/coral", body.Instance)
}

func TestRespondError_ProblemPassesThrough(t *testing.T) {
	w, body := respond(t, ErrTooManyRequests.WithDetail("slow down"))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "slow down", body.Detail)
}

func TestRespondError_UnmappedHidesCause(t *testing.T) {
	w, body := respond(t, stderrors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, TypeInternal, body.Type)
	require.NotContains(t, body.Detail, "pq:")
}
