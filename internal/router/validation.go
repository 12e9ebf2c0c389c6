package router

import (
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Grammars is the read side of a grammar registry.
type Grammars interface {
	Get(name string) (*grammar.Grammar, error)
	Names() []string
}

type ValidationRouter struct {
	e        *echo.Echo
	svc      *validation.Service
	grammars Grammars
	reader   storage.Reader
}

type ValidationRouterOption func(*ValidationRouter)

// WithVerdictReader enables GET /v1/verdicts/:id.
func WithVerdictReader(r storage.Reader) ValidationRouterOption {
	return func(vr *ValidationRouter) {
		vr.reader = r
	}
}

func NewValidationRouter(e *echo.Echo, svc *validation.Service, grammars Grammars, opts ...ValidationRouterOption) *ValidationRouter {
	r := &ValidationRouter{
		e:        e,
		svc:      svc,
		grammars: grammars,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ValidationRouter) Bind() {
	v1 := r.e.Group("/v1")
	v1.POST("/validate/:grammar", r.validateHandler)
	v1.GET("/grammars", r.listGrammarsHandler)
	v1.GET("/grammars/:name", r.getGrammarHandler)
	if r.reader != nil {
		v1.GET("/verdicts/:id", r.getVerdictHandler)
	}
}

// GrammarSummary is one entry of the grammar listing.
type GrammarSummary struct {
	Name        string `json:"name" example:"a_plus_b"`
	Description string `json:"description,omitempty" example:"two integers separated by a space"`
	Rules       string `json:"rules" example:"a_plus_b: a in [1, 1000000000], space, b in [1, 1000000000], eoln, eof"`
}

// validateHandler godoc
// @Summary Validate an input
// @Description Checks the raw request body against the grammar. Malformed input is a 200 response with accepted=false.
// @Tags validation
// @Accept octet-stream
// @Produce json
// @Param grammar path string true "Grammar name"
// @Param source query string false "Label stored with the verdict"
// @Param input body string true "Raw input bytes"
// @Success 200 {object} verdict.Verdict
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Failure 413 {object} apperr.ErrorResponse
// @Router /v1/validate/{grammar} [post]
func (r *ValidationRouter) validateHandler(c echo.Context) error {
	name := c.Param("grammar")
	body := c.Request().Body
	defer body.Close()

	v, err := r.svc.Validate(c.Request().Context(), name, c.QueryParam("source"), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// listGrammarsHandler godoc
// @Summary List grammars
// @Tags grammars
// @Produce json
// @Success 200 {array} GrammarSummary
// @Router /v1/grammars [get]
func (r *ValidationRouter) listGrammarsHandler(c echo.Context) error {
	names := r.grammars.Names()
	out := make([]GrammarSummary, 0, len(names))
	for _, name := range names {
		g, err := r.grammars.Get(name)
		if err != nil {
			return err
		}
		out = append(out, GrammarSummary{Name: g.Name, Description: g.Description, Rules: g.String()})
	}
	return c.JSON(http.StatusOK, out)
}

// getGrammarHandler godoc
// @Summary Get a grammar definition
// @Tags grammars
// @Produce json
// @Param name path string true "Grammar name"
// @Success 200 {object} definition.Definition
// @Failure 404 {object} apperr.ErrorResponse
// @Router /v1/grammars/{name} [get]
func (r *ValidationRouter) getGrammarHandler(c echo.Context) error {
	g, err := r.grammars.Get(c.Param("name"))
	if err != nil {
		return err
	}
	def, err := definition.FromGrammar(g)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, def)
}

// getVerdictHandler godoc
// @Summary Get a stored verdict
// @Tags validation
// @Produce json
// @Param id path string true "Verdict ID"
// @Success 200 {object} verdict.Verdict
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /v1/verdicts/{id} [get]
func (r *ValidationRouter) getVerdictHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationf("invalid verdict id %q", c.Param("id"))
	}

	v, err := r.reader.Get(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return &apperr.NotFoundError{Kind: "verdict", Name: id.String()}
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}
