package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Get("/keypad", h.Keypad)
		r.Post("/evaluate", h.Evaluate)

		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/keys", h.PressKeys)
			r.Post("/mode", h.SetMode)

			r.Get("/history", h.History)
			r.Delete("/history", h.ClearHistory)
			r.Delete("/history/{index}", h.DeleteHistoryEntry)
			r.Post("/history/{index}/reuse", h.ReuseHistory)
		})
	})
}
