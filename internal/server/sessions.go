package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/treefix50/pipeview/internal/playersync"
	"github.com/treefix50/pipeview/internal/session"
	"github.com/treefix50/pipeview/internal/wizard"
)

// eventBodyLimit bounds an inbound player payload; real reports are tiny.
const eventBodyLimit = 16 << 10

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		JobID    string `json:"jobId"`
		ClientID string `json:"clientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.JobID) == "" {
		s.writeError(w, "jobId is required", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Create(payload.JobID, payload.ClientID)
	if err != nil {
		s.writeError(w, "unknown job", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, sess.State())
}

// Routes under /sessions/{id}[/{action}...]
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	sess, ok := s.sessions.Get(parts[0])
	if !ok {
		http.NotFound(w, r)
		return
	}
	rest := parts[1:]

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, sess.State())
		case http.MethodDelete:
			s.sessions.Close(sess.ID)
			w.WriteHeader(http.StatusNoContent)
		default:
			s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch rest[0] {
	case "play", "pause", "seek", "rate":
		s.handleTransport(w, r, sess, rest[0])
	case "players":
		s.handlePlayers(w, r, sess, rest[1:])
	case "events":
		s.handleEvents(w, r, sess)
	case "wizard":
		s.handleWizard(w, r, sess, rest[1:])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request, sess *session.Session, action string) {
	if r.Method != http.MethodPost {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clock := sess.Clock()
	switch action {
	case "play":
		clock.Play()
	case "pause":
		clock.Pause()
	case "seek":
		var payload struct {
			Time float64 `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		clock.Seek(payload.Time)
	case "rate":
		var payload struct {
			Rate float64 `json:"rate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		clock.SetSpeed(payload.Rate)
	}
	writeJSON(w, clock.State())
}

// Routes under /sessions/{id}/players[/{playerId}[/commands]]
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request, sess *session.Session, rest []string) {
	if len(rest) == 0 {
		if r.Method != http.MethodPost {
			s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			PlayerID string `json:"playerId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(payload.PlayerID) == "" {
			s.writeError(w, "playerId is required", http.StatusBadRequest)
			return
		}
		sess.RegisterPlayer(payload.PlayerID)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]string{"playerId": payload.PlayerID})
		return
	}

	playerID := rest[0]
	switch {
	case len(rest) == 1 && r.Method == http.MethodDelete:
		sess.UnregisterPlayer(playerID)
		w.WriteHeader(http.StatusNoContent)

	case len(rest) == 2 && rest[1] == "commands" && r.Method == http.MethodGet:
		h, ok := sess.Player(playerID)
		if !ok {
			http.NotFound(w, r)
			return
		}
		cmds := h.Drain()
		if cmds == nil {
			cmds = []playersync.Command{}
		}
		writeJSON(w, map[string]any{"commands": cmds})

	default:
		http.NotFound(w, r)
	}
}

// POST /sessions/{id}/events?player={playerId} carries one raw player
// payload. The body is handed to reconciliation as-is; whatever cannot be
// used is discarded there, so this endpoint always accepts.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		s.writeError(w, "player is required", http.StatusBadRequest)
		return
	}

	if ok, _ := s.events.Allow(sess.ID + "/" + playerID); !ok {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, eventBodyLimit))
	if err != nil {
		s.writeError(w, "bad request", http.StatusBadRequest)
		return
	}
	sess.HandleEvent(playerID, raw)
	w.WriteHeader(http.StatusAccepted)
}

// Routes under /sessions/{id}/wizard[/{action}]
func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request, sess *session.Session, rest []string) {
	wiz := sess.Wizard()

	if len(rest) == 0 {
		if r.Method != http.MethodGet {
			s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, s.wizardState(sess))
		return
	}
	if len(rest) > 1 || r.Method != http.MethodPost {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var err error
	switch rest[0] {
	case "open":
		wiz.Open()
	case "cancel":
		wiz.Cancel()
	case "back":
		err = wiz.Back()
	case "family":
		var payload struct {
			Family string `json:"family"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		err = wiz.SelectFamily(payload.Family)
	case "group":
		var payload struct {
			Group string `json:"group"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		err = wiz.SelectGroup(payload.Group)
	case "descriptor":
		var payload struct {
			Descriptor string `json:"descriptor"`
			Code       string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		err = wiz.SelectDescriptor(payload.Descriptor, payload.Code)
	case "details":
		var payload struct {
			Remark        string `json:"remark"`
			ClockPosition int    `json:"clockPosition"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		err = wiz.SubmitDetails(payload.Remark, payload.ClockPosition)
	case "jump":
		var payload struct {
			Stage string `json:"stage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, "bad request", http.StatusBadRequest)
			return
		}
		stage, ok := wizard.ParseStage(payload.Stage)
		if !ok {
			s.writeError(w, "unknown stage", http.StatusBadRequest)
			return
		}
		err = wiz.JumpTo(stage)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.writeError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, s.wizardState(sess))
}

// wizardResponse is the wizard snapshot plus the option list for the
// current stage, sourced from the taxonomy service (or its fallback
// tables).
type wizardResponse struct {
	session.WizardState
	Options any `json:"options,omitempty"`
}

func (s *Server) wizardState(sess *session.Session) wizardResponse {
	wiz := sess.Wizard()
	resp := wizardResponse{
		WizardState: session.WizardState{
			Open:  wiz.IsOpen(),
			Stage: wiz.Stage().String(),
			Draft: wiz.Draft(),
		},
	}
	if !resp.Open {
		return resp
	}
	draft := resp.Draft
	switch wiz.Stage() {
	case wizard.StageFamily:
		resp.Options = s.taxonomy.Families()
	case wizard.StageGroup:
		resp.Options = s.taxonomy.Groups(draft.Family)
	case wizard.StageDescriptor:
		resp.Options = s.taxonomy.Descriptors(draft.Family, draft.Group)
	}
	return resp
}
