package modelsync

import (
	"context"

	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
)

// verify starts loading src out of band. Until it settles the instance shows
// the loading variant of its placeholder.
func (e *Engine) verify(src string) {
	e.verification++

	if e.verifier == nil {
		e.state = Populated
		e.setView(component.View{})
		return
	}

	e.state = Pending
	e.setView(component.View{Loading: true})

	var (
		token    = e.verification
		verifier = e.verifier
		timeout  = e.verifyTimeout
	)

	e.host.Async(func() func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := verifier.Verify(ctx, src)

		return func() {
			e.settle(token, src, err)
		}
	})
}

func (e *Engine) settle(token int, src string, err error) {
	if token != e.verification {
		e.logger.Debug("dropping superseded verification", zap.String("src", src))
		return
	}

	if err != nil {
		e.logger.Warn("image not loadable", zap.String("src", src), zap.Error(err))
		e.state = Broken
		e.setView(component.View{Broken: true})
	} else {
		e.state = Populated
		e.setView(component.View{})
	}

	e.render()
	e.host.Changed(e.comp)
}

// setView records the visual state; the caller renders.
func (e *Engine) setView(v component.View) {
	e.comp.View = v
}
