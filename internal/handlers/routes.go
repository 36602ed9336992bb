package handlers

import "net/http"

// Router bundles the handlers served by the API
type Router struct {
	Middleware *Middleware
	Game       *GameHandler
	Catalog    *CatalogHandler
	Progress   *ProgressHandler
	Audio      *AudioHandler
	Locale     *LocaleHandler
	Startup    *Startup
	StaticPath string
	// ContentPath is served under /content/ when catalogs live on disk
	ContentPath string
}

// Handler registers all routes and wraps them in the middleware chain
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	if rt.StaticPath != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(rt.StaticPath))))
	}
	if rt.ContentPath != "" {
		mux.Handle("GET /content/", http.StripPrefix("/content/", http.FileServer(http.Dir(rt.ContentPath))))
	}

	if rt.Startup != nil {
		mux.HandleFunc("GET /api/health", rt.Startup.Health)
	}
	mux.HandleFunc("GET /api/locale", rt.Locale.Locale)

	mux.HandleFunc("GET /api/periods", rt.Catalog.Periods)
	mux.HandleFunc("GET /api/words", rt.Catalog.Words)
	mux.HandleFunc("POST /api/words/refresh", rt.Catalog.Refresh)

	mux.HandleFunc("GET /api/progress", rt.Progress.Get)
	mux.HandleFunc("DELETE /api/progress", rt.Progress.Clear)

	mux.HandleFunc("GET /api/game", rt.Game.Snapshot)
	mux.HandleFunc("POST /api/game/start", rt.Game.Start)
	mux.HandleFunc("POST /api/game/answer", rt.Game.Answer)
	mux.HandleFunc("POST /api/game/continue", rt.Game.Continue)
	mux.HandleFunc("POST /api/game/menu", rt.Game.Menu)
	mux.HandleFunc("POST /api/game/browse", rt.Game.Browse)

	mux.HandleFunc("GET /api/audio/{wordId}", rt.Audio.Audio)

	return rt.Middleware.Logging(rt.Middleware.RateLimit(rt.Middleware.Device(mux)))
}
