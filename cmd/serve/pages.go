package serve

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bgraf/baukasten/document"
)

type pageSummary struct {
	GUID    uuid.UUID `json:"guid"`
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Updated time.Time `json:"updated"`
	Tags    []string  `json:"tags"`
}

func summarize(p *document.Page) pageSummary {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.String())
	}

	return pageSummary{
		GUID:    p.GUID,
		Title:   p.Title,
		Slug:    p.Slug,
		Updated: p.Updated,
		Tags:    tags,
	}
}

func (api *serveAPI) ServePages(c *gin.Context) {
	api.mu.Lock()
	defer api.mu.Unlock()

	var pages []*document.Page
	if tag := c.Query("tag"); len(tag) > 0 {
		pages = api.store.PagesByTagName(tag)
	} else {
		pages = api.store.Pages
	}

	summaries := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, summarize(p))
	}

	c.JSON(http.StatusOK, summaries)
}

type createRequest struct {
	Title string   `json:"title" binding:"required"`
	Slug  string   `json:"slug" binding:"omitempty,max=80"`
	Tags  []string `json:"tags" binding:"dive,required"`
	Block string   `json:"block"`
}

func (api *serveAPI) CreatePage(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	body := ""
	if len(req.Block) > 0 {
		block, err := api.catalog.Block(req.Block)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		body = block.Content
	}

	var tags []document.Tag
	for _, t := range req.Tags {
		tags = append(tags, document.Tag{Raw: strings.TrimSpace(t)})
	}

	api.mu.Lock()
	page, err := api.store.Create(req.Title, req.Slug, tags, body)
	api.mu.Unlock()
	if errors.Is(err, document.ErrSlugTaken) {
		abort(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusCreated, summarize(page))
}

// pageByParam resolves the :GUID parameter, answering the request on failure.
func (api *serveAPI) pageByParam(c *gin.Context) (*document.Page, bool) {
	guid, err := uuid.Parse(c.Param("GUID"))
	if err != nil {
		abort(c, http.StatusNotFound, document.ErrNoSuchPage)
		return nil, false
	}

	api.mu.Lock()
	page, err := api.store.PageByGUID(guid)
	api.mu.Unlock()
	if err != nil {
		abort(c, http.StatusNotFound, err)
		return nil, false
	}

	return page, true
}

// sessionByParam opens the editor session of the :GUID page.
func (api *serveAPI) sessionByParam(c *gin.Context) (*session, bool) {
	page, ok := api.pageByParam(c)
	if !ok {
		return nil, false
	}

	sess, err := api.sessions.open(c.Request.Context(), page)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return nil, false
	}

	return sess, true
}
