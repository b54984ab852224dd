package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"equityprices/internal/aggregate"
	"equityprices/internal/config"
	"equityprices/internal/provider"
	"equityprices/internal/quotes"
	"equityprices/internal/universe"
)

type server struct {
	svc              *quotes.Service
	registry         *provider.Registry
	universe         *universe.Loader
	defaultChunkSize int
	maxSymbols       int
	requestTimeout   time.Duration
}

type quotesResponse struct {
	Provider string                   `json:"provider"`
	Symbols  []string                 `json:"symbols"`
	Data     map[string]quotes.Result `json:"data"`
}

type universeResponse struct {
	Symbols []string `json:"symbols"`
}

type providersResponse struct {
	Default   string   `json:"default"`
	Providers []string `json:"providers"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type postBody struct {
	Symbols   []string `json:"symbols"`
	Provider  string   `json:"provider"`
	ChunkSize *int     `json:"chunk_size"`
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /equities/quotes", s.handleGetQuotes)
	mux.HandleFunc("POST /equities/quotes", s.handlePostQuotes)
	mux.HandleFunc("GET /equities/universe", s.handleUniverse)
	mux.HandleFunc("GET /equities/providers", s.handleProviders)
	return mux
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *server) handleGetQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var symbols []string
	for _, v := range q["symbols"] {
		symbols = append(symbols, config.SplitCSV(v)...)
	}

	chunkSize := s.defaultChunkSize
	if raw := q.Get("chunk_size"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, "chunk_size must be an integer")
			return
		}
		chunkSize = n
	}
	s.writeQuotes(w, r.Context(), symbols, q.Get("provider"), chunkSize)
}

func (s *server) handlePostQuotes(w http.ResponseWriter, r *http.Request) {
	var b postBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	chunkSize := s.defaultChunkSize
	if b.ChunkSize != nil {
		chunkSize = *b.ChunkSize
	}
	symbols := make([]string, 0, len(b.Symbols))
	for _, sym := range b.Symbols {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	s.writeQuotes(w, r.Context(), symbols, b.Provider, chunkSize)
}

func (s *server) writeQuotes(w http.ResponseWriter, rctx context.Context, symbols []string, providerID string, chunkSize int) {
	if len(symbols) == 0 {
		writeError(w, http.StatusBadRequest, "No symbols provided")
		return
	}
	if s.maxSymbols > 0 && len(symbols) > s.maxSymbols {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many symbols (max %d)", s.maxSymbols))
		return
	}
	if chunkSize <= 0 {
		writeError(w, http.StatusBadRequest, "chunk_size must be positive")
		return
	}
	if providerID == "" {
		providerID = s.svc.DefaultProvider()
	}

	ctx := rctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(rctx, s.requestTimeout)
		defer cancel()
	}

	data, err := s.svc.Fetch(ctx, symbols, providerID, chunkSize)
	switch {
	case errors.Is(err, quotes.ErrUnknownProvider):
		writeError(w, http.StatusBadRequest, "unknown provider: "+providerID)
		return
	case errors.Is(err, aggregate.ErrInvalidChunkSize):
		writeError(w, http.StatusBadRequest, "chunk_size must be positive")
		return
	case err != nil:
		zap.L().Error("fetch quotes failed", zap.String("provider", providerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quotesResponse{
		Provider: providerID,
		Symbols:  symbols,
		Data:     data,
	})
}

func (s *server) handleUniverse(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.universe.Symbols(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Could not load universe",
			Details: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, universeResponse{Symbols: symbols})
}

func (s *server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{
		Default:   s.svc.DefaultProvider(),
		Providers: s.registry.Names(),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		zap.L().Warn("encode response failed", zap.Error(err))
	}
}
