package api

import (
	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/ratelimit"
	"github.com/yourname/focustracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Store() storage.Store
	Limiter() ratelimit.Limiter
}

type app struct {
	logger  internal.Logger
	store   storage.Store
	limiter ratelimit.Limiter
}

// NewApp bundles the dependencies handlers need. Everything is injected;
// there is no package-level state.
func NewApp(logger internal.Logger, store storage.Store, limiter ratelimit.Limiter) App {
	return &app{logger: logger, store: store, limiter: limiter}
}

func (a *app) Logger() internal.Logger     { return a.logger }
func (a *app) Store() storage.Store       { return a.store }
func (a *app) Limiter() ratelimit.Limiter { return a.limiter }
