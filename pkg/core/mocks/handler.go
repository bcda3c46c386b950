package mocks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/oneconcern/geomon/pkg/model"
)

// Handler exposes the service over the wire protocol the client speaks.
//
// Domain failures are reported embedded in a 200 answer, the way the real
// service does; only malformed requests and unknown routes yield a bare
// HTTP error.
func (s *Service) Handler() http.Handler {
	return http.HandlerFunc(s.serve)
}

// NewTestServer starts the service on a loopback listener and returns its URL
// and a teardown func
func NewTestServer(_ testing.TB, s *Service) (string, func()) {
	server := httptest.NewServer(s.Handler())
	return server.URL, server.Close
}

type wireEnvelope struct {
	Success bool        `json:"success"`
	Error   interface{} `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, wireEnvelope{Success: true})
}

func writeFailure(w http.ResponseWriter, err error) {
	se, ok := err.(*serviceError)
	if !ok {
		se = errf(500, err.Error())
	}
	writeJSON(w, map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    se.code,
			"message": se.message,
		},
	})
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "versions" {
		http.Error(w, "route unknown", http.StatusNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// collection-level verbs
	if len(parts) == 2 {
		switch parts[1] {
		case "create":
			s.serveCreate(w, r)
		case "list":
			writeJSON(w, map[string]interface{}{"success": true, "versions": s.listVersions()})
		default:
			http.Error(w, "route unknown", http.StatusNotFound)
		}
		return
	}

	guid := model.VersionGuid(parts[1])

	// layer-scoped edits: /versions/{guid}/layers/{layerID}/applyEdits
	if len(parts) == 5 && parts[2] == "layers" && parts[4] == "applyEdits" {
		layerID, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			http.Error(w, "bad layer id", http.StatusBadRequest)
			return
		}
		s.serveApplyEdits(w, r, guid, layerID)
		return
	}
	if len(parts) != 3 {
		http.Error(w, "route unknown", http.StatusNotFound)
		return
	}

	switch parts[2] {
	case "get":
		vs, err := s.version(guid)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "version": vs.desc})
	case "alter":
		var patch model.VersionPatch
		if !decode(w, r, &patch) {
			return
		}
		finish(w, s.alterVersion(guid, patch))
	case "delete":
		finish(w, s.deleteVersion(guid))
	case "startEditing":
		var args struct {
			SessionID model.SessionGuid `json:"sessionId"`
		}
		if !decode(w, r, &args) {
			return
		}
		finish(w, s.startEditing(guid, args.SessionID))
	case "stopEditing":
		var args struct {
			SessionID model.SessionGuid `json:"sessionId"`
			SaveEdits bool              `json:"saveEdits"`
		}
		if !decode(w, r, &args) {
			return
		}
		finish(w, s.stopEditing(guid, args.SessionID, args.SaveEdits))
	case "reconcile":
		var args struct {
			SessionID        model.SessionGuid       `json:"sessionId"`
			AbortIfConflicts bool                    `json:"abortIfConflicts"`
			Detection        model.ConflictDetection `json:"detection"`
			WithPost         bool                    `json:"withPost"`
		}
		if !decode(w, r, &args) {
			return
		}
		outcome, err := s.reconcile(guid, args.SessionID, args.AbortIfConflicts, args.Detection, args.WithPost)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "outcome": outcome})
	case "conflicts":
		var args struct {
			SessionID model.SessionGuid `json:"sessionId"`
		}
		if !decode(w, r, &args) {
			return
		}
		set, err := s.conflictSet(guid, args.SessionID)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "conflicts": set})
	case "inspectConflicts":
		var args struct {
			SessionID   model.SessionGuid        `json:"sessionId"`
			Inspections []model.InspectionRecord `json:"inspections"`
		}
		if !decode(w, r, &args) {
			return
		}
		finish(w, s.inspectConflicts(guid, args.SessionID, args.Inspections))
	case "post":
		var args struct {
			SessionID model.SessionGuid     `json:"sessionId"`
			Rows      model.PartialPostSpec `json:"rows"`
		}
		if !decode(w, r, &args) {
			return
		}
		finish(w, s.post(guid, args.SessionID, args.Rows))
	case "differences":
		var args struct {
			Moment     model.Moment         `json:"moment"`
			ResultType model.DiffResultType `json:"resultType"`
		}
		if !decode(w, r, &args) {
			return
		}
		diffs, err := s.differences(guid, args.Moment, args.ResultType)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "differences": diffs})
	case "restoreRows":
		var args struct {
			SessionID model.SessionGuid    `json:"sessionId"`
			Rows      []model.RowSelection `json:"rows"`
		}
		if !decode(w, r, &args) {
			return
		}
		finish(w, s.restoreRows(guid, args.SessionID, args.Rows))
	default:
		http.Error(w, "route unknown", http.StatusNotFound)
	}
}

func (s *Service) serveCreate(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Name        string            `json:"name"`
		Access      model.AccessLevel `json:"access"`
		Description string            `json:"description"`
	}
	if !decode(w, r, &args) {
		return
	}
	if args.Name == "" {
		writeFailure(w, errf(400, "missing version name"))
		return
	}
	if !args.Access.IsValid() {
		writeFailure(w, errf(400, "invalid access level"))
		return
	}
	desc, err := s.createVersion(args.Name, args.Access, args.Description)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"success": true, "version": desc})
}

func (s *Service) serveApplyEdits(w http.ResponseWriter, r *http.Request, guid model.VersionGuid, layerID int64) {
	var args struct {
		SessionID model.SessionGuid `json:"sessionId"`
		Adds      model.Features    `json:"adds"`
		Updates   model.Features    `json:"updates"`
		Deletes   []int64           `json:"deletes"`
	}
	if !decode(w, r, &args) {
		return
	}
	finish(w, s.applyEdits(guid, args.SessionID, layerID, args.Adds, args.Updates, args.Deletes))
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func finish(w http.ResponseWriter, err error) {
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeOK(w)
}
