package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KibbyCaps/gem-casino/internal/games"
)

func (s *Server) handleAdminState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Admin())
}

type maxBetRequest struct {
	MaxBet int64 `json:"maxBet"`
}

func (s *Server) handleSetMaxBet(w http.ResponseWriter, r *http.Request) {
	var req maxBetRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.session.SetMaxBet(req.MaxBet); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.Admin().Policy)
}

type houseEdgeRequest struct {
	HouseEdge int `json:"houseEdge"`
}

func (s *Server) handleSetHouseEdge(w http.ResponseWriter, r *http.Request) {
	var req houseEdgeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.session.SetHouseEdge(req.HouseEdge); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.Admin().Policy)
}

type setGemsRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) handleSetGems(w http.ResponseWriter, r *http.Request) {
	var req setGemsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.session.SetGems(req.Amount); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"balance": s.session.Balance()})
}

type toggleRequest struct {
	On bool `json:"on"`
}

func (s *Server) handleSetMaintenance(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.session.SetMaintenance(req.On)
	s.writeJSON(w, http.StatusOK, s.session.Admin().Policy)
}

func (s *Server) handleSetDebug(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.session.SetDebug(req.On)
	s.writeJSON(w, http.StatusOK, s.session.Admin().Policy)
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	s.session.ResetStats()
	s.writeJSON(w, http.StatusOK, s.session.Admin().Stats)
}

// userSummary is the admin listing row. Passwords stay server-side.
type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Gems     int64  `json:"gems"`
	JoinDate string `json:"joinDate"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	all, err := s.users.List()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]userSummary, 0, len(all))
	for _, u := range all {
		out = append(out, userSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Gems:     u.Gems,
			JoinDate: u.JoinDate.Format("2006-01-02"),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListBanned(w http.ResponseWriter, r *http.Request) {
	banned, err := s.users.ListBanned()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, banned)
}

type banRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.users.Ban(req.Username); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleUnban(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.users.Unban(req.Username); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- cheats ---

func (s *Server) handleCheatFlags(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.CheatFlags())
}

type cheatRequest struct {
	On    bool        `json:"on"`
	Color games.Color `json:"color,omitempty"`
}

func (s *Server) handleSetCheat(w http.ResponseWriter, r *http.Request) {
	var req cheatRequest
	if !s.decode(w, r, &req) {
		return
	}

	var err error
	switch flag := chi.URLParam(r, "flag"); flag {
	case "force-jackpot":
		s.session.SetForceJackpot(req.On)
	case "force-color":
		if req.On {
			err = s.session.SetForcedColor(req.Color)
		} else {
			s.session.ClearForcedColor()
		}
	case "mines-auto-win":
		s.session.SetMinesAutoWin(req.On)
	case "mines-esp":
		s.session.SetMinesESP(req.On)
	case "force-dealer-bust":
		s.session.SetForceDealerBust(req.On)
	case "see-dealer-card":
		s.session.SetSeeDealerCard(req.On)
	case "balance-floor":
		s.session.SetBalanceFloor(req.On)
	default:
		s.writeError(w, http.StatusNotFound, errTypeValidation, "unknown cheat flag")
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.CheatFlags())
}
