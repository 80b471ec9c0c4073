package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/kurogitsune/gamesofni/internal/comm"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/config"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/service"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

type Handler struct {
	cfg       config.Config
	games     *service.GameService
	oauth     *service.OAuthService
	tokenAuth *jwtauth.JWTAuth
	upgrader  websocket.Upgrader
	Feed      *FeedHub
}

func NewHandler(cfg config.Config, games *service.GameService, oauth *service.OAuthService) *Handler {
	return &Handler{
		cfg:      cfg,
		games:    games,
		oauth:    oauth,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		Feed:     NewFeedHub(),
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) slackResponse(w http.ResponseWriter, responseType, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comm.SlackResponse{ResponseType: responseType, Text: text})
}

// SlashCommandHandler dispatches a Slack slash command. Every command
// arrives as one form-encoded POST carrying the verification token, team,
// user and the free-text arguments.
func (h *Handler) SlashCommandHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	if r.FormValue("token") != h.cfg.SlackToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		command  = r.FormValue("command")
		team     = r.FormValue("team_id")
		domain   = r.FormValue("team_domain")
		username = r.FormValue("user_name")
		text     = r.FormValue("text")
		now      = time.Now().Unix()
		ctx      = r.Context()
	)

	var (
		reply  string
		err    error
		prefix string
		public bool
	)

	switch command {
	case "/create_game":
		prefix = "Something went wrong with your attempt to create game: "
		public = true
		reply, err = h.games.CreateGame(ctx, team, username, text, now)
	case "/bid":
		prefix = "Something went wrong with your bid: "
		reply, err = h.games.PlaceBid(ctx, team, username, text, now)
	case "/set_timezone":
		prefix = "It seems you input timezone is in the wrong format: "
		public = true
		reply, err = h.games.SetTimezone(ctx, team, domain, text)
	case "/info":
		reply, err = h.games.ActiveGamesInfo(ctx, team, now)
	default:
		h.slackResponse(w, comm.ResponseEphemeral, "Unknown command: "+command)
		return
	}

	if err != nil {
		var verr *vcg.ValidationError
		var ferr *vcg.FormatError
		if errors.As(err, &verr) || errors.As(err, &ferr) {
			h.slackResponse(w, comm.ResponseEphemeral,
				prefix+err.Error()+commandInfo(command, text))
			return
		}

		requestId := middleware.GetReqID(r.Context())
		log.Errorf("command %s failed: %s", command, err)
		h.slackResponse(w, comm.ResponseEphemeral,
			"Sorry, something went wrong. "+
				"Please, send short description of what happened along with magic number to "+
				"sadnessexperts@gmail.com so we could fix it."+
				"\nMagic number: "+requestId)
		return
	}

	responseType := comm.ResponseEphemeral
	if public {
		responseType = comm.ResponseInChannel
	}
	h.slackResponse(w, responseType, reply)
}

// OAuthHandler finishes the add-to-slack flow and sends the browser to the
// right static page.
func (h *Handler) OAuthHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("error") == "access_denied" {
		log.Info("user denied authentication")
		http.Redirect(w, r, h.cfg.CancelURL, http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		log.Warn("no oauth code was provided")
		http.Redirect(w, r, h.cfg.ErrorURL, http.StatusFound)
		return
	}

	if err := h.oauth.Exchange(r.Context(), code, time.Now().Unix()); err != nil {
		log.Errorf("oauth exchange failed: %s", err)
		http.Redirect(w, r, h.cfg.ErrorURL+"?requestId="+middleware.GetReqID(r.Context()), http.StatusFound)
		return
	}

	http.Redirect(w, r, h.cfg.LandingURL, http.StatusFound)
}

// FeedHandler upgrades the connection and keeps it registered until the
// client goes away. Clients only listen; reads just detect the close.
func (h *Handler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("failed to upgrade feed connection: %s", err)
		return
	}

	socketId := h.Feed.Add(conn)
	log.Infof("feed client connected: %s", socketId)

	go func() {
		defer h.Feed.Remove(socketId)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// AdminGamesHandler lists a team's games in progress.
func (h *Handler) AdminGamesHandler(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "team query parameter required"})
		return
	}

	info, err := h.games.ActiveGamesInfo(r.Context(), team, time.Now().Unix())
	if err != nil {
		log.Errorf("admin games listing failed: %s", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}

	h.CreateResponse(w, Response{Message: "ok", Code: http.StatusOK, Data: info})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}

func commandInfo(command, text string) string {
	return "\nyour command was: " + command + " " + text
}
