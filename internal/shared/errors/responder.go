package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// unexpectedDetail replaces the text of unmapped errors so storage and
// driver messages never reach clients.
const unexpectedDetail = "An unexpected error occurred"

// Respond writes problem with the request path as its instance.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// ErrorMapper turns an application error into a problem when it recognises it.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder tries each mapper in order before falling back to 500.
type ChainedResponder struct {
	mappers []ErrorMapper
}

func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{mappers: mappers}
}

// Resolve returns the problem err maps to.
func (r *ChainedResponder) Resolve(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	for _, mapper := range r.mappers {
		if mapped, ok := mapper(err); ok {
			return mapped
		}
	}
	return ErrInternal.WithDetail(unexpectedDetail)
}

// RespondError resolves err and writes it. Unmapped errors are attached to
// the gin context so the request logger still sees them.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	problem := r.Resolve(err)
	if problem.Status >= 500 {
		_ = c.Error(err)
	}
	Respond(c, problem)
}
