package serve

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/modelsync"
)

type componentView struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Parent string          `json:"parent,omitempty"`
	Props  component.Props `json:"props,omitempty"`
	State  string          `json:"state,omitempty"`
}

type pageView struct {
	Page       pageSummary     `json:"page"`
	Components []componentView `json:"components"`
	Selected   string          `json:"selected,omitempty"`
	Dirty      bool            `json:"dirty"`
	Device     string          `json:"device"`
	HTML       string          `json:"html"`
}

// view snapshots the session. It must run inside ed.Do.
func (sess *session) view() (pageView, error) {
	ed := sess.ed

	html, err := ed.Serialize()
	if err != nil {
		return pageView{}, err
	}

	v := pageView{
		Page:   summarize(sess.page),
		Dirty:  ed.Dirty(),
		Device: ed.Device().Name,
		HTML:   html,
	}

	if sel := ed.Selected(); sel != nil {
		v.Selected = sel.ID
	}

	for _, c := range ed.Components() {
		cv := componentView{ID: c.ID, Type: c.Type}
		if c.Parent != nil {
			cv.Parent = c.Parent.ID
		}
		if c.IsCustom() {
			cv.Props = c.Props
			if e, ok := sess.ext.Engine(c.ID); ok {
				cv.State = e.State().String()
			}
		}
		v.Components = append(v.Components, cv)
	}

	return v, nil
}

// respond answers with the session view after fn ran on the editor loop.
func respond(c *gin.Context, sess *session, status int, fn func() error) {
	var (
		v   pageView
		err error
	)

	sess.ed.Do(func() {
		if fn != nil {
			if err = fn(); err != nil {
				return
			}
		}
		v, err = sess.view()
	})

	switch {
	case errors.Is(err, editor.ErrNoSuchComponent):
		abort(c, http.StatusNotFound, err)
	case errors.Is(err, component.ErrInvalidTrait),
		errors.Is(err, component.ErrUnknownType),
		errors.Is(err, editor.ErrUnknownDevice):
		abort(c, http.StatusBadRequest, err)
	case err != nil:
		abort(c, http.StatusInternalServerError, err)
	default:
		c.JSON(status, v)
	}
}

func (api *serveAPI) ServePage(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	respond(c, sess, http.StatusOK, nil)
}

type traitRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

func (api *serveAPI) SetTrait(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	var req traitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	var changes []modelsync.Change
	respond(c, sess, http.StatusOK, func() error {
		var err error
		changes, err = sess.ext.SetTrait(req.ID, req.Name, req.Value)
		return err
	})

	api.logger.Debug("set trait",
		zap.String("component", req.ID),
		zap.String("trait", req.Name),
		zap.Int("changes", len(changes)))
}

type selectRequest struct {
	ID string `json:"id" binding:"required"`
}

func (api *serveAPI) Select(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	respond(c, sess, http.StatusOK, func() error {
		return sess.ed.SelectByID(req.ID)
	})
}

type blockRequest struct {
	Block  string `json:"block" binding:"required"`
	Parent string `json:"parent"`
}

func (api *serveAPI) AddBlock(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	block, err := api.catalog.Block(req.Block)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	respond(c, sess, http.StatusCreated, func() error {
		_, err := sess.ed.AddBlock(block.Content, req.Parent)
		return err
	})
}

type deviceRequest struct {
	Device string `json:"device" binding:"required,oneof=desktop tablet mobile"`
}

func (api *serveAPI) SetDevice(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	respond(c, sess, http.StatusOK, func() error {
		return sess.ed.SetDevice(req.Device)
	})
}

func (api *serveAPI) Save(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	respond(c, sess, http.StatusOK, func() error {
		body, err := sess.ed.Serialize()
		if err != nil {
			return err
		}

		api.mu.Lock()
		defer api.mu.Unlock()

		if err := api.store.Save(sess.page, body); err != nil {
			return err
		}

		sess.ed.MarkSaved()
		return nil
	})
}

// ServeCanvas returns the live canvas document including the injected styles.
func (api *serveAPI) ServeCanvas(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	var (
		doc string
		err error
	)
	sess.ed.Do(func() {
		doc, err = sess.ed.Frame().HTML()
	})
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}
