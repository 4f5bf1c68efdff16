// Package server exposes the bot over HTTP: the interactions endpoint used in
// HTTP mode, health and metrics, and the legal pages discord links to.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"songbot/discord"
	"songbot/pages"
	"songbot/sentry"
)

const shutdownTimeout = 10 * time.Second

// InteractionHandler answers interactions posted to /discord/interactions.
// handlers.Manager implements it.
type InteractionHandler interface {
	VerifyDiscordRequest(signature, timestamp string, body []byte) bool
	ParseInteraction(body []byte) (*discordgo.Interaction, error)
	HandleHTTPInteraction(r discord.Responder, i *discordgo.Interaction) *discordgo.InteractionResponse
}

type Options struct {
	// Interactions is nil in gateway mode, which leaves the endpoint out.
	Interactions InteractionHandler
	// Responder delivers deferred replies for HTTP interactions.
	Responder discord.Responder
	Metrics   http.Handler
}

// NewRouter builds the gin engine with every route the bot serves.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), sentry.GetSentryGin(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "songbot"})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	router.GET("/privacy", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pages.PrivacyPolicy()))
	})
	router.GET("/terms", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pages.TermsOfService()))
	})

	if opts.Interactions != nil {
		router.POST("/discord/interactions", interactionsHandler(opts.Interactions, opts.Responder))
	}

	return router
}

func interactionsHandler(handler InteractionHandler, responder discord.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("X-Signature-Ed25519")
		timestamp := c.GetHeader("X-Signature-Timestamp")

		bodyBytes, err := c.GetRawData()
		if err != nil {
			log.Errorf("Error reading body: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
			return
		}

		if !handler.VerifyDiscordRequest(signature, timestamp, bodyBytes) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid request signature"})
			return
		}

		interaction, err := handler.ParseInteraction(bodyBytes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse interaction"})
			return
		}

		c.JSON(http.StatusOK, handler.HandleHTTPInteraction(responder, interaction))
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"module": "server",
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Tracef("served in %s", time.Since(start))
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Failed to shut down HTTP server gracefully: %v", err)
		}
	}()

	log.Infof("Starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}
