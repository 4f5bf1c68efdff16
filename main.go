package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"songbot/config"
	"songbot/discord"
	"songbot/handlers"
	"songbot/logger"
	"songbot/metrics"
	"songbot/odesli"
	"songbot/sentry"
	"songbot/server"
	"songbot/songs"
)

var (
	cfgFile          string
	registerCommands bool
	cfg              *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "songbot",
	Short: "Discord bot that finds a song on every streaming platform",
	Long: `songbot answers /music and the "Get Songs" message command with links to the
same song on Spotify, YouTube Music, Apple Music, Amazon Music and Bandcamp,
using the Odesli (song.link) API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (default)",
	RunE:  runServe,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the bot's application commands with discord and exit",
	RunE:  runRegister,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url or text>...",
	Short: "Resolve the links in the arguments and print them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json if present)")
	serveCmd.Flags().BoolVar(&registerCommands, "register", true, "register application commands on startup")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, registerCmd, resolveCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger.Setup(cfg.Options.LogLevel, cmd.ErrOrStderr())
	return nil
}

func newSongService(recorder songs.Recorder) *songs.Service {
	opts := []odesli.Option{}
	if cfg.Odesli.APIKey != "" {
		opts = append(opts, odesli.WithAPIKey(cfg.Odesli.APIKey))
	}
	client := odesli.New(cfg.Odesli.BaseURL, cfg.Odesli.UserCountry, opts...)
	return songs.NewService(client, recorder)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := sentry.Init(cfg.Sentry); err != nil {
		log.Errorf("sentry.Init: %v", err)
	}
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	service := newSongService(m)

	session, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		return err
	}

	appID, err := applicationID(session)
	if err != nil {
		return err
	}
	if registerCommands {
		registered, err := discord.RegisterCommands(session, appID, cfg.Discord.GuildID)
		if err != nil {
			sentry.ReportError(err)
			return err
		}
		log.Infof("Registered %d commands", len(registered))
	}

	manager := handlers.NewManager(appID, cfg.Discord.PublicKey, service, handlers.NewHints(cfg.Options.HintChance), m)

	opts := server.Options{Metrics: m.Handler()}
	if cfg.Options.HTTPInteractions() {
		opts.Interactions = manager
		opts.Responder = session
		log.Info("Receiving interactions over HTTP on /discord/interactions")
	} else {
		session.AddHandler(manager.HandleInteraction)
		session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
			log.Infof("Logged in as %s", r.User.String())
		})
		if err := session.Open(); err != nil {
			return fmt.Errorf("opening gateway: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, ":"+cfg.Options.Port, server.NewRouter(opts))
	})
	if !cfg.Options.HTTPInteractions() {
		g.Go(func() error {
			<-ctx.Done()
			log.Info("Closing gateway connection")
			return session.Close()
		})
	}
	return g.Wait()
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	session, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		return err
	}
	appID, err := applicationID(session)
	if err != nil {
		return err
	}

	registered, err := discord.RegisterCommands(session, appID, cfg.Discord.GuildID)
	if err != nil {
		return err
	}
	for _, c := range registered {
		fmt.Fprintf(cmd.OutOrStdout(), "registered %q (%s)\n", c.Name, c.ID)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	results := newSongService(nil).ResolveText(cmd.Context(), strings.Join(args, " "))
	if len(results) == 0 {
		return fmt.Errorf("no links found")
	}
	printResults(cmd.OutOrStdout(), results)
	return nil
}

// applicationID falls back to the bot user's ID, which matches the
// application ID for bot accounts.
func applicationID(session *discordgo.Session) (string, error) {
	if cfg.Discord.AppID != "" {
		return cfg.Discord.AppID, nil
	}
	user, err := session.User("@me")
	if err != nil {
		return "", fmt.Errorf("looking up application id: %w", err)
	}
	return user.ID, nil
}

func printResults(w io.Writer, results []songs.Result) {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if result.Err != nil {
			fmt.Fprintf(w, "%s\n  error: %v\n", result.URL, result.Err)
			continue
		}
		fmt.Fprintln(w, result.Summary.Heading())
		if result.Summary.PageURL != "" {
			fmt.Fprintf(w, "  %s\n", result.Summary.PageURL)
		}
		for _, link := range result.Summary.Links {
			fmt.Fprintf(w, "  %-13s %s\n", link.Platform.DisplayName()+":", link.URL)
		}
	}
}
