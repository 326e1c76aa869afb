package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates an application error into a problem, reporting false
// when it does not recognise the error.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	// Mode decides whether problem statuses are kept or folded into 400.
	Mode    StatusMode
	mappers []ErrorMapper
}

// NewChainedResponder builds a responder that consults mappers in order before
// falling back to validation and internal-error problems. A blank mode is uniform.
func NewChainedResponder(baseURI string, mode StatusMode, mappers ...ErrorMapper) *Responder {
	if mode == "" {
		mode = StatusModeUniform
	}
	return &Responder{BaseURI: baseURI, Mode: mode, mappers: mappers}
}

// Respond sends problem with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	problem = r.Mode.apply(problem)
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError converts err to a problem and sends it.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	if fields, ok := FieldErrors(err); ok {
		r.Respond(c, NewValidationProblem(fields).WithDetail(err.Error()))
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}
