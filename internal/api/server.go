// Package api exposes the casino over HTTP. Routes map one to one onto
// session operations; the server owns no game state of its own.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/games"
	"github.com/KibbyCaps/gem-casino/internal/ledger"
	"github.com/KibbyCaps/gem-casino/internal/session"
	"github.com/KibbyCaps/gem-casino/internal/users"
)

// Server handles HTTP requests.
type Server struct {
	session *session.Session
	users   *users.Service
	log     *zap.Logger
	origins []string
}

// NewServer creates the API server.
func NewServer(sess *session.Session, usersvc *users.Service, origins []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{session: sess, users: usersvc, log: log, origins: origins}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Get("/session", s.handleState)
		r.Post("/gems/free", s.handleFreeGems)

		r.Post("/wager/{game}/increase", s.handleWagerStep(true))
		r.Post("/wager/{game}/decrease", s.handleWagerStep(false))
		r.Post("/games/{game}/close", s.handleCloseGame)

		r.Post("/slots/spin", s.handleSlotsSpin)

		r.Post("/roulette/select", s.handleRouletteSelect)
		r.Post("/roulette/spin", s.handleRouletteSpin)

		r.Post("/blackjack/deal", s.handleBlackjackDeal)
		r.Post("/blackjack/hit", s.handleBlackjackHit)
		r.Post("/blackjack/stand", s.handleBlackjackStand)
		r.Get("/blackjack", s.handleBlackjackView)

		r.Post("/mines/start", s.handleMinesStart)
		r.Post("/mines/reveal", s.handleMinesReveal)
		r.Post("/mines/cashout", s.handleMinesCashout)
		r.Get("/mines", s.handleMinesView)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", s.handleAdminState)
			r.Post("/maxbet", s.handleSetMaxBet)
			r.Post("/houseedge", s.handleSetHouseEdge)
			r.Post("/gems", s.handleSetGems)
			r.Post("/maintenance", s.handleSetMaintenance)
			r.Post("/debug", s.handleSetDebug)
			r.Post("/stats/reset", s.handleResetStats)
			r.Get("/users", s.handleListUsers)
			r.Get("/banned", s.handleListBanned)
			r.Post("/ban", s.handleBan)
			r.Post("/unban", s.handleUnban)
		})

		r.Route("/cheats", func(r chi.Router) {
			r.Use(s.requireDebug)
			r.Get("/", s.handleCheatFlags)
			r.Post("/{flag}", s.handleSetCheat)
		})
	})

	return r
}

// requireDebug hides the cheat surface unless debug mode is on.
func (s *Server) requireDebug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.session.State().Debug {
			s.writeError(w, http.StatusForbidden, "debug_disabled", "debug mode is off")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())))
				s.writeError(w, http.StatusInternalServerError, errTypeInternal, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Casino-Version", Version)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("response encode failed", zap.Error(err))
	}
}

// decode reads a JSON request body into dst.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, errTypeValidation, "invalid JSON body")
		return false
	}
	return true
}

// gameParam resolves the {game} URL parameter.
func (s *Server) gameParam(w http.ResponseWriter, r *http.Request) (ledger.Game, bool) {
	g := ledger.Game(chi.URLParam(r, "game"))
	for _, known := range ledger.Games {
		if g == known {
			return g, true
		}
	}
	s.writeError(w, http.StatusNotFound, errTypeValidation, "unknown game")
	return "", false
}

// --- auth ---

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.session.SetUser(u.Username); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, authResponse{Username: u.Username, Balance: s.session.Balance()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.users.Login(req.Username, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.session.SetUser(u.Username); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{Username: u.Username, Balance: s.session.Balance()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SetUser(""); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- session ---

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleFreeGems(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]int64{"balance": s.session.FreeGems()})
}

type wagerResponse struct {
	Game  ledger.Game `json:"game"`
	Wager int64       `json:"wager"`
}

func (s *Server) handleWagerStep(up bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.gameParam(w, r)
		if !ok {
			return
		}
		var (
			wager int64
			err   error
		)
		if up {
			wager, err = s.session.IncreaseWager(g)
		} else {
			wager, err = s.session.DecreaseWager(g)
		}
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, wagerResponse{Game: g, Wager: wager})
	}
}

func (s *Server) handleCloseGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameParam(w, r)
	if !ok {
		return
	}
	res, err := s.session.CloseGame(g)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"abandoned": res})
}

// --- games ---

func (s *Server) handleSlotsSpin(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.SpinSlots()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

type rouletteSelectRequest struct {
	Color games.Color `json:"color"`
}

func (s *Server) handleRouletteSelect(w http.ResponseWriter, r *http.Request) {
	var req rouletteSelectRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.session.SelectColor(req.Color); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]games.Color{"selected": req.Color})
}

func (s *Server) handleRouletteSpin(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.SpinRoulette()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBlackjackDeal(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.DealBlackjack()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBlackjackHit(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.HitBlackjack()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBlackjackStand(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.StandBlackjack()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBlackjackView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.BlackjackView())
}

type minesStartRequest struct {
	MineCount int `json:"mineCount"`
}

func (s *Server) handleMinesStart(w http.ResponseWriter, r *http.Request) {
	req := minesStartRequest{MineCount: games.DefaultMineCount}
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}
	if err := s.session.StartMines(req.MineCount); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.session.MinesView())
}

type minesRevealRequest struct {
	Cell int `json:"cell"`
}

func (s *Server) handleMinesReveal(w http.ResponseWriter, r *http.Request) {
	var req minesRevealRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.session.RevealMine(req.Cell)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMinesCashout(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.CashoutMines()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMinesView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.MinesView())
}
