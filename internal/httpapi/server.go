// Package httpapi is the §6 HTTP/JSON transport: the external interface the
// editor talks to. It is explicitly out of scope as hard engineering
// (spec.md §1 lists "HTTP transport, routing table, HMAC authentication"
// among the external collaborators referenced only by interface) - this is
// the thinnest wiring that satisfies the wire contract, built on
// net/http.ServeMux the way the teacher's own internal/server does, with no
// third-party router: there is no routing complexity here (a dozen fixed
// paths, no path params, no middleware chain) that would justify one.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/standardbeagle/ycmd-go/internal/dispatch"
	ycmderrors "github.com/standardbeagle/ycmd-go/internal/errors"
	"github.com/standardbeagle/ycmd-go/internal/filtersort"
	"github.com/standardbeagle/ycmd-go/internal/security"
	"github.com/standardbeagle/ycmd-go/internal/types"
)

var errFilepathNotInFileData = errors.New("filepath not present in file_data")

// Server implements every §6 handler over a Dispatcher. It owns no
// completion logic itself - decode request, call the dispatcher, encode
// response - matching the spec's framing of the transport as an external
// collaborator of the completion core.
type Server struct {
	Dispatcher *dispatch.Dispatcher

	mu          sync.Mutex
	initialized bool
	extraConf   map[string]json.RawMessage

	shutdownOnce sync.Once
	onShutdown   func()
}

// New wires a Server. onShutdown is invoked once, after the /shutdown
// response has been written, to unwind the acceptor (§7's "shutdown
// handler returns its response then causes the acceptor to close").
func New(d *dispatch.Dispatcher, onShutdown func()) *Server {
	return &Server{Dispatcher: d, onShutdown: onShutdown}
}

// Mux builds the routing table for every §6 path.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthy", recovering(s.handleHealthy))
	mux.Handle("/ready", recovering(s.handleReady))
	mux.Handle("/shutdown", recovering(s.handleShutdown))
	mux.Handle("/initialize", recovering(s.handleInitialize))
	mux.Handle("/completions", recovering(s.handleCompletions))
	mux.Handle("/event_notification", recovering(s.handleEventNotification))
	mux.Handle("/filter_and_sort_candidates", recovering(s.handleFilterAndSort))
	mux.Handle("/defined_subcommands", recovering(s.handleDefinedSubcommands))
	mux.Handle("/semantic_completion_available", recovering(s.handleSemanticAvailable))
	mux.Handle("/signature_help_available", recovering(s.handleSignatureHelpAvailable))
	mux.Handle("/detailed_diagnostic", recovering(s.handleDetailedDiagnostic))
	mux.Handle("/debug_info", recovering(s.handleDebugInfo))
	mux.Handle("/receive_messages", recovering(s.handleReceiveMessages))
	mux.Handle("/semantic_tokens", recovering(s.handleSemanticTokens))
	mux.Handle("/inlay_hints", recovering(s.handleInlayHints))
	mux.Handle("/run_completer_command", recovering(s.handleRunCompleterCommand))
	return mux
}

// recovering wraps a handler so a panic (a programmer error escaping a
// handler) is rendered as the §7 {exception, message, traceback} body
// instead of crashing the process or hanging the connection.
func recovering(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeException(w, rec, debug.Stack())
			}
		}()
		h(w, r)
	})
}

func writeException(w http.ResponseWriter, rec interface{}, stack []byte) {
	status := http.StatusInternalServerError
	exception := "InternalError"
	var message string

	switch e := rec.(type) {
	case *ycmderrors.RequestError:
		status = http.StatusBadRequest
		exception = "RequestError"
		message = e.Error()
	case error:
		message = e.Error()
	default:
		message = http.StatusText(http.StatusInternalServerError)
		if s, ok := rec.(string); ok {
			message = s
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"exception": exception,
		"message":   message,
		"traceback": string(stack),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// decodeRequest decodes body into v, returning a RequestError on malformed
// JSON; writeException renders that as a 400 response with exception
// "RequestError".
func decodeRequest(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return ycmderrors.NewRequestError("body", err)
	}
	return nil
}

func (s *Server) handleHealthy(w http.ResponseWriter, r *http.Request) { writeJSON(w, true) }
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request)   { writeJSON(w, true) }

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, true)
	s.shutdownOnce.Do(func() {
		if s.onShutdown != nil {
			go s.onShutdown()
		}
	})
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserOptions map[string]json.RawMessage `json:"user_options"`
	}
	if err := decodeRequest(r, &body); err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.initialized = true
	s.extraConf = body.UserOptions
	s.mu.Unlock()
	writeJSON(w, true)
}

func validateRequest(req *types.SimpleRequest) error {
	if _, ok := req.FileData[req.Filepath]; !ok {
		return ycmderrors.NewRequestError("filepath", errFilepathNotInFileData)
	}
	return security.ValidateRequestPath(req.Filepath, req.WorkingDirectory)
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var req types.SimpleRequest
	if err := decodeRequest(r, &req); err != nil {
		panic(err)
	}
	if err := validateRequest(&req); err != nil {
		panic(err)
	}

	res, err := s.Dispatcher.ComputeCandidates(r.Context(), &req)
	if err != nil {
		panic(ycmderrors.NewInternalError("completions", err))
	}

	candidates := res.Candidates
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	writeJSON(w, map[string]interface{}{
		"completions":             candidates,
		"completion_start_column": res.CompletionStartColumn,
		"errors":                  []interface{}{},
	})
}

func (s *Server) handleEventNotification(w http.ResponseWriter, r *http.Request) {
	var req types.EventNotificationRequest
	if err := decodeRequest(r, &req); err != nil {
		panic(err)
	}
	if err := validateRequest(&req.SimpleRequest); err != nil {
		panic(err)
	}
	s.Dispatcher.HandleEvent(r.Context(), &req)
	writeJSON(w, map[string]interface{}{})
}

// filterAndSortRequest mirrors the reference endpoint's shape: candidates
// may be plain strings or arbitrary JSON objects, in which case
// sort_property names the field each object is ranked on.
type filterAndSortRequest struct {
	Candidates    []json.RawMessage `json:"candidates"`
	SortProperty  string            `json:"sort_property"`
	Query         string            `json:"query"`
	MaxCandidates int               `json:"max_num_candidates"`
}

// sortPropertyOf extracts the text to rank raw against query from. A bare
// JSON string is used as-is; a JSON object is looked up by sortProperty,
// whose value must itself be a string - anything else is a malformed
// candidate, validated up front by handleFilterAndSort rather than left to
// FilterAndSort's per-item tolerance, so one bad candidate is a clean 400
// instead of a silently incomplete result.
func sortPropertyOf(sortProperty string) func(json.RawMessage) (string, error) {
	return func(raw json.RawMessage) (string, error) {
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			return asString, nil
		}
		if sortProperty == "" {
			return "", ycmderrors.NewRequestError("sort_property", errors.New("candidate is not a string and no sort_property was given"))
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", err
		}
		field, ok := obj[sortProperty]
		if !ok {
			return "", ycmderrors.NewRequestError("sort_property", errors.New("candidate object has no "+sortProperty+" field"))
		}
		if err := json.Unmarshal(field, &asString); err != nil {
			return "", ycmderrors.NewRequestError("sort_property", errors.New(sortProperty+" is not a string"))
		}
		return asString, nil
	}
}

func (s *Server) handleFilterAndSort(w http.ResponseWriter, r *http.Request) {
	var req filterAndSortRequest
	if err := decodeRequest(r, &req); err != nil {
		panic(err)
	}

	extract := sortPropertyOf(req.SortProperty)
	for _, c := range req.Candidates {
		if _, err := extract(c); err != nil {
			panic(err)
		}
	}

	out, err := filtersort.ParallelFilterAndSort(r.Context(), req.Query, req.Candidates, req.MaxCandidates, runtime.GOMAXPROCS(0), extract)
	if err != nil {
		panic(ycmderrors.NewInternalError("filter_and_sort_candidates", err))
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	writeJSON(w, out)
}

func (s *Server) handleDefinedSubcommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []string{})
}

func (s *Server) handleSemanticAvailable(w http.ResponseWriter, r *http.Request) {
	var req types.SimpleRequest
	if err := decodeRequest(r, &req); err != nil {
		panic(err)
	}
	writeJSON(w, s.Dispatcher.SemanticCompletionAvailable(&req))
}

func (s *Server) handleSignatureHelpAvailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, false)
}

func (s *Server) handleDetailedDiagnostic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "")
}

func (s *Server) handleDebugInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"python":    map[string]interface{}{},
		"clang":     map[string]interface{}{},
		"extra_conf": map[string]interface{}{},
		"completer": map[string]interface{}{},
	})
}

func (s *Server) handleReceiveMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, false)
}

func (s *Server) handleSemanticTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"semantic_tokens": map[string]interface{}{"tokens": []interface{}{}},
		"errors":          []interface{}{},
	})
}

func (s *Server) handleInlayHints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"inlay_hints": []interface{}{},
		"errors":      []interface{}{},
	})
}

func (s *Server) handleRunCompleterCommand(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, nil)
}
