package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/hotcold/internal/model"
	"github.com/mohammed-shakir/hotcold/pkg/tiered"
)

// caps one range response; clients page with lo/hi instead
const maxRangeEntries = 10000

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	k, err := parseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	s.mu.Lock()
	err = s.idx.Insert(k, []byte(req.Value))
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, tiered.ErrKeyOutOfRange) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	k, err := parseKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	payload, found := s.idx.Lookup(k)
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, model.GetResponse{Key: k, Found: false})
		return
	}
	writeJSON(w, http.StatusOK, model.GetResponse{Key: k, Value: string(payload), Found: true})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	lo, err := parseKey(r.URL.Query().Get("lo"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "lo: "+err.Error())
		return
	}
	hi, err := parseKey(r.URL.Query().Get("hi"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "hi: "+err.Error())
		return
	}
	if lo > hi {
		writeError(w, http.StatusBadRequest, "lo must not exceed hi")
		return
	}

	resp := model.RangeResponse{Lo: lo, Hi: hi, Entries: []model.Entry{}}

	s.mu.Lock()
	s.idx.RangeScan(lo, hi, func(k int64, payload []byte) {
		if len(resp.Entries) >= maxRangeEntries {
			return
		}
		resp.Entries = append(resp.Entries, model.Entry{Key: k, Value: string(payload)})
	})
	s.mu.Unlock()

	resp.Count = len(resp.Entries)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func parseKey(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("missing key")
	}
	k, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("key must be a base-10 integer")
	}
	return k, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
