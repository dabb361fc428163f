// Package fakeapi is an in-memory stand-in for the zoosanitario REST API
// used by tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

type Record = map[string]any

type collection struct {
	order   []string
	records map[string]Record
}

type failure struct {
	status  int
	payload Record
	times   int
}

// Server serves /rates, /introducers, /invoices, /certificates and the
// /oracle endpoints.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	collections map[string]*collection
	nextID      int
	requests    map[string]int
	failure     *failure

	requireCredentials bool
	envelope           bool
	configured         bool
	oracleUser         string
}

func New() *Server {
	s := &Server{
		collections: map[string]*collection{},
		requests:    map[string]int{},
		nextID:      1,
	}
	for _, name := range []string{"rates", "introducers", "invoices", "certificates"} {
		s.collections[name] = &collection{records: map[string]Record{}}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Seed stores record in the named collection and returns its id.
func (s *Server) Seed(name string, record Record) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(name, record)
}

// Record returns a copy of a stored record.
func (s *Server) Record(name, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.collections[name].records[id]
	if !ok {
		return nil, false
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, true
}

// Requests counts requests by "METHOD /path".
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// FailNext makes the next n collection requests fail with status and payload.
func (s *Server) FailNext(n, status int, payload Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = &failure{status: status, payload: payload, times: n}
}

// RequireCredentials makes collection endpoints answer 401 until
// credentials are posted to /oracle/credentials.
func (s *Server) RequireCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireCredentials = true
	s.configured = false
}

// UseEnvelope wraps list answers in {"data": [...], "total": n}.
func (s *Server) UseEnvelope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = true
}

func (s *Server) Configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configured
}

func (s *Server) insert(name string, record Record) string {
	c := s.collections[name]
	n := s.nextID
	s.nextID++
	id := strconv.Itoa(n)
	record["id"] = n
	switch name {
	case "invoices":
		if _, ok := record["numeroFactura"]; !ok {
			record["numeroFactura"] = fmt.Sprintf("FAC-%06d", n)
		}
	case "certificates":
		if _, ok := record["numeroCertificado"]; !ok {
			record["numeroCertificado"] = fmt.Sprintf("CZS-%06d", n)
		}
	}
	c.order = append(c.order, id)
	c.records[id] = record
	return id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.Method+" "+r.URL.Path]++

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if parts[0] == "oracle" {
		s.handleOracle(w, r, parts)
		return
	}

	c, ok := s.collections[parts[0]]
	if !ok || len(parts) > 2 {
		writeJSON(w, http.StatusNotFound, Record{"statusCode": 404, "message": "Cannot " + r.Method + " " + r.URL.Path})
		return
	}
	if s.requireCredentials && !s.configured {
		writeJSON(w, http.StatusUnauthorized, Record{
			"statusCode":       401,
			"message":          "Credenciales de Oracle no configuradas",
			"needsCredentials": true,
		})
		return
	}
	if f := s.failure; f != nil {
		f.times--
		if f.times <= 0 {
			s.failure = nil
		}
		writeJSON(w, f.status, f.payload)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.list(w, r, c)
		case http.MethodPost:
			var rec Record
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				writeJSON(w, http.StatusBadRequest, Record{"message": err.Error()})
				return
			}
			id := s.insert(parts[0], rec)
			writeJSON(w, http.StatusCreated, c.records[id])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id := parts[1]
	rec, ok := c.records[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, Record{"statusCode": 404, "message": "Registro no encontrado"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut, http.MethodPatch:
		var in Record
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, Record{"message": err.Error()})
			return
		}
		if r.Method == http.MethodPut {
			rec = Record{}
		}
		for k, v := range in {
			rec[k] = v
		}
		rec["id"], _ = strconv.Atoi(id)
		c.records[id] = rec
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		delete(c.records, id)
		for i, v := range c.order {
			if v == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, c *collection) {
	ids := c.order
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		off, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		off = min(max(off, 0), len(ids))
		ids = ids[off:min(off+l, len(ids))]
	}
	items := make([]Record, 0, len(ids))
	for _, id := range ids {
		items = append(items, c.records[id])
	}
	if s.envelope {
		writeJSON(w, http.StatusOK, Record{"data": items, "total": len(c.order)})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleOracle(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case len(parts) == 2 && parts[1] == "credentials" && r.Method == http.MethodPost:
		var in struct {
			User     string `json:"usuario"`
			Password string `json:"clave"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.User == "" || in.Password == "" {
			writeJSON(w, http.StatusBadRequest, Record{"message": []string{"usuario is required", "clave is required"}})
			return
		}
		s.configured = true
		s.oracleUser = in.User
		w.WriteHeader(http.StatusNoContent)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, Record{"configurado": s.configured, "usuario": s.oracleUser})
	default:
		writeJSON(w, http.StatusNotFound, Record{"statusCode": 404, "message": "not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
