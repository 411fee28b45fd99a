package serve

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeLive pushes the page view over a websocket, once on connect and again
// after every change of the session. Incoming messages are ignored.
func (api *serveAPI) ServeLive(c *gin.Context) {
	sess, ok := api.sessionByParam(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	changed, stop := sess.watch()
	defer stop()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					api.logger.Debug("websocket closed", zap.Error(err))
				}
				return
			}
		}
	}()

	for {
		if err := push(conn, sess); err != nil {
			api.logger.Debug("push view", zap.Error(err))
			return
		}

		select {
		case <-changed:
		case <-closed:
			return
		}
	}
}

func push(conn *websocket.Conn, sess *session) error {
	var (
		v   pageView
		err error
	)
	sess.ed.Do(func() {
		v, err = sess.view()
	})
	if err != nil {
		return err
	}

	return conn.WriteJSON(v)
}
