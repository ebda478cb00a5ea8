package controllers

import (
	"net/http"

	"github.com/scrowmarket/storefront-backend/api/responses"
	"github.com/scrowmarket/storefront-backend/pkg/config"
)

func Healthz(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Scrow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
