package gin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docscout"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type documentationRequest struct {
	URLs        json.RawMessage `json:"urls"`
	UserRequest string          `json:"userRequest"`
	Focus       string          `json:"focus"`
}

type documentationResponse struct {
	HasDocumentation bool             `json:"hasDocumentation"`
	Results          *docscout.Report `json:"results"`
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	*docscout.Page
	ScrapedAt time.Time `json:"scrapedAt"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// postDocumentation handles POST /api/documentation.
func (s *Server) postDocumentation(c *gin.Context) {
	var req documentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: docscout.EINVALID})
		return
	}

	var urls []string
	if len(req.URLs) == 0 || json.Unmarshal(req.URLs, &urls) != nil || urls == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "URLs array is required", Code: docscout.EINVALID})
		return
	}

	report, err := s.service.Browse(c.Request.Context(), docscout.BrowseRequest{
		URLs:        urls,
		UserRequest: req.UserRequest,
		Focus:       req.Focus,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getDocumentation handles GET /api/documentation. The response carries an
// ETag so pollers can revalidate cheaply.
func (s *Server) getDocumentation(c *gin.Context) {
	var resp documentationResponse
	if s.store != nil {
		report, err := s.store.Get(c.Request.Context())
		switch {
		case err == nil:
			resp = documentationResponse{HasDocumentation: true, Results: report}
		case docscout.ErrorCode(err) != docscout.ENOTFOUND:
			s.respondError(c, err)
			return
		}
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.respondError(c, err)
		return
	}
	etag := `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// scrape handles POST /api/scrape.
func (s *Server) scrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "URL is required", Code: docscout.EINVALID})
		return
	}

	page, err := s.service.ScrapePage(c.Request.Context(), req.URL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scrapeResponse{Page: page, ScrapedAt: time.Now().UTC()})
}

// respondError maps an application error to its HTTP status.
func (s *Server) respondError(c *gin.Context, err error) {
	code := docscout.ErrorCode(err)
	status := errorStatus(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, errorResponse{Error: docscout.ErrorMessage(err), Code: code})
}

func errorStatus(code string) int {
	switch code {
	case docscout.EINVALID:
		return http.StatusBadRequest
	case docscout.ENOTFOUND:
		return http.StatusNotFound
	case docscout.ETIMEOUT:
		return http.StatusGatewayTimeout
	case docscout.ENETWORK, docscout.EHTTPSTATUS, docscout.ECRAWL, docscout.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
