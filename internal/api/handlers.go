// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/jobs"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadinessPing != nil {
		if err := s.cfg.ReadinessPing(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.deps.Runner.Status()

	counts, err := s.deps.Store.Counts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := map[string]any{
		"job":     status,
		"catalog": counts,
		"version": s.cfg.Version,
	}
	if s.cfg.ManifestVersion != "" {
		out["manifest"] = map[string]string{
			"version":     s.cfg.ManifestVersion,
			"cli_version": s.cfg.CLIVersion,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMakes(w http.ResponseWriter, r *http.Request) {
	makes, err := s.deps.Store.LoadCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Listing endpoint stays shallow; models come via /makes/{slug}.
	out := make([]*catalog.Make, 0, len(makes))
	for _, mk := range makes {
		shallow := *mk
		shallow.Models = nil
		out = append(out, &shallow)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMake(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	makes, err := s.deps.Store.LoadCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, mk := range makes {
		if mk.Slug == slug {
			writeJSON(w, http.StatusOK, mk)
			return
		}
	}
	writeError(w, http.StatusNotFound, "make not found")
}

func (s *Server) handleTrims(w http.ResponseWriter, r *http.Request) {
	makes, err := s.deps.Store.LoadCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	preds, err := trimFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trims := catalog.Filter(catalog.AllTrims(makes), preds...)
	writeJSON(w, http.StatusOK, trims)
}

// trimFilters builds predicates from query parameters. Unknown parameters
// are ignored, malformed values are a 400.
func trimFilters(r *http.Request) ([]catalog.Predicate, error) {
	var preds []catalog.Predicate
	q := r.URL.Query()

	intParam := func(name string, build func(int) catalog.Predicate) error {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("invalid " + name)
		}
		preds = append(preds, build(n))
		return nil
	}

	if raw := q.Get("min_power"); raw != "" {
		cv, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid min_power")
		}
		preds = append(preds, catalog.MinPower(cv))
	}

	if err := intParam("min_cylinders", catalog.MinCylinders); err != nil {
		return nil, err
	}
	if err := intParam("min_gears", catalog.MinGears); err != nil {
		return nil, err
	}

	if raw := q.Get("max_acceleration"); raw != "" {
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid max_acceleration")
		}
		preds = append(preds, catalog.MaxAcceleration(secs))
	}

	if raw := q.Get("disc_brakes"); raw != "" {
		want, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid disc_brakes")
		}
		if want {
			preds = append(preds, catalog.DiscBrakes())
		}
	}

	if raw := q.Get("speed_steering"); raw != "" {
		want, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("invalid speed_steering")
		}
		if want {
			preds = append(preds, catalog.SpeedSteering())
		}
	}

	return preds, nil
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	if s.deps.Resolver == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	handles, err := s.deps.Resolver.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, handles)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	// The scrape outlives the request; keep the request values but drop
	// its cancellation.
	jobID, err := s.deps.Runner.Start(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, jobs.ErrAlreadyRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}
