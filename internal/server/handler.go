package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/chat"
	"pickaxeclub/wither/internal/configvars"
	"pickaxeclub/wither/internal/gamelog"
	"pickaxeclub/wither/internal/metrics"
)

// BootNotifier is the name boot callbacks are announced under.
const BootNotifier = "wither"

const maxLogBody = 1 << 20

// Dispatcher handles a chat line.
type Dispatcher interface {
	Dispatch(ctx context.Context, issuer, text string) error
}

// ChatSink posts to the chat platform.
type ChatSink interface {
	ToChat(ctx context.Context, speaker, text string) error
}

// API holds the webhook handlers.
type API struct {
	dispatcher Dispatcher
	chat       ChatSink
	vars       configvars.Store
	token      string
	logger     zerolog.Logger
}

// NewAPI returns the handlers. token is the chat platform's shared secret.
func NewAPI(dispatcher Dispatcher, chat ChatSink, vars configvars.Store, token string, logger zerolog.Logger) *API {
	return &API{dispatcher: dispatcher, chat: chat, vars: vars, token: token, logger: logger}
}

// RegisterRoutes mounts every endpoint on router.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/", a.index)
	router.GET("/restore-week", a.restoreWeek)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/hook", a.chatHook)
	router.POST("/minecraft/hook", a.gameHook)
	router.POST("/cloud/booted/:instance_id", a.booted)
}

func (a *API) index(c *gin.Context) {
	c.String(http.StatusOK, "Wither!")
}

func (a *API) restoreWeek(c *gin.Context) {
	week, err := a.vars.Get(c.Request.Context(), configvars.BootRestoreWeek)
	if err != nil && !errors.Is(err, configvars.ErrNotFound) {
		a.logger.Error().Err(err).Msg("read restore week")
		c.String(http.StatusInternalServerError, "error")
		return
	}
	c.String(http.StatusOK, week)
}

func (a *API) chatHook(c *gin.Context) {
	text := c.PostForm("text")
	user := c.PostForm("user_name")

	if text == "" || user == chat.PlatformRelay {
		c.String(http.StatusOK, "nope")
		return
	}
	if !tokenMatches(c.PostForm("token"), a.token) {
		c.String(http.StatusForbidden, "ok")
		return
	}

	// The chat platform stops waiting after a few seconds; a command that
	// has started runs to completion anyway.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := a.dispatcher.Dispatch(ctx, user, text); err != nil {
		c.String(http.StatusInternalServerError, "error")
		return
	}
	c.String(http.StatusCreated, "ok")
}

func (a *API) gameHook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLogBody))
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body")
		return
	}
	a.logger.Debug().Str("body", string(body)).Msg("game log")

	ev := gamelog.Parse(string(body))
	if !gamelog.IsNoise(ev) {
		var err error
		switch e := ev.(type) {
		case gamelog.PlayerChat:
			err = a.chat.ToChat(c.Request.Context(), e.Speaker, e.Text)
		case gamelog.ServerNotice:
			err = a.chat.ToChat(c.Request.Context(), chat.BotName, e.Text)
		}
		if err != nil {
			a.logger.Error().Err(err).Msg("relay game log to chat")
			c.String(http.StatusInternalServerError, "error")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

func (a *API) booted(c *gin.Context) {
	id := c.Param("instance_id")
	a.logger.Info().Str("instance_id", id).Msg("droplet finished booting")

	if err := a.chat.ToChat(c.Request.Context(), BootNotifier, fmt.Sprintf("I've finished booting %s!", id)); err != nil {
		a.logger.Error().Err(err).Msg("announce boot")
		c.String(http.StatusInternalServerError, "error")
		return
	}
	c.String(http.StatusOK, "ok")
}
