// Package server exposes the dungeon collection over a small read-only
// HTTP surface for the editor frontend. Detail lookups go through the
// collection's temporary full-load mode, so browsing never marks anything
// dirty.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/DeltaJordan/DreamNexus/internal/balance"
	"github.com/DeltaJordan/DreamNexus/internal/dbcache"
	"github.com/DeltaJordan/DreamNexus/internal/dungeon"
)

// Server serves the preview endpoints.
type Server struct {
	collection *dungeon.Collection
	router     *httprouter.Router

	// optional decode cache; keyed by the source identity the caller
	// derived from the archive files
	cache       *dbcache.Cache
	source      string
	sourceStamp string
}

// New wires the routes. cache may be nil to disable preview caching.
func New(collection *dungeon.Collection, cache *dbcache.Cache, source, sourceStamp string) *Server {
	s := &Server{
		collection:  collection,
		cache:       cache,
		source:      source,
		sourceStamp: sourceStamp,
	}
	s.router = httprouter.New()
	s.router.GET("/v1/dungeons", s.listDungeons)
	s.router.GET("/v1/dungeon/:index", s.serveDungeon)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	logrus.Debugf("%v %v", req.Method, req.URL)

	s.router.ServeHTTP(w, req)
}

type dungeonSummary struct {
	Index      int   `json:"index"`
	SortKey    int16 `json:"sortKey"`
	Category   uint8 `json:"category"`
	NameID     int32 `json:"nameId"`
	FloorCount int16 `json:"floorCount"`
	Dirty      bool  `json:"dirty"`
}

func (s *Server) listDungeons(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	all, err := s.collection.LoadAll(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error during dungeon listing: %v", err))
		return
	}

	summaries := make([]dungeonSummary, 0, len(all))
	for _, d := range all {
		summaries = append(summaries, dungeonSummary{
			Index:      d.Index,
			SortKey:    d.SortKey,
			Category:   d.Category,
			NameID:     d.NameID,
			FloorCount: d.FloorCount,
			Dirty:      s.collection.IsDirty(d.Index),
		})
	}
	writeJSON(w, summaries)
}

func (s *Server) serveDungeon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid dungeon index %q", ps.ByName("index")))
		return
	}
	noCache := len(r.URL.Query()["noCache"]) != 0

	if s.cache != nil && !noCache {
		cached, err := s.cache.Get(s.source, index, s.sourceStamp)
		if err == nil && cached != nil {
			w.Header().Set("content-type", "application/json")
			w.Write(cached)
			return
		}
		if err != nil {
			logrus.Warnf("preview cache lookup failed: %v", err)
		}
	}

	d, err := s.collection.GetByIndex(index, false, true)
	if err != nil {
		var outOfRange *balance.IndexOutOfRangeError
		if errors.As(err, &outOfRange) {
			writeError(w, http.StatusNotFound, "dungeon not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error during lookup of dungeon %v: %v", index, err))
		return
	}

	body, err := json.Marshal(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cache != nil {
		if err := s.cache.Put(s.source, index, s.sourceStamp, body); err != nil {
			logrus.Warnf("preview cache store failed: %v", err)
		}
	}

	w.Header().Set("content-type", "application/json")
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("content-type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{
		Error: msg,
	})
}
