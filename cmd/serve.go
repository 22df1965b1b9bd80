package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/SampleBase/samplebase-services/api/handlers"
	"github.com/SampleBase/samplebase-services/api/middleware"
	"github.com/SampleBase/samplebase-services/api/services"
	docs "github.com/SampleBase/samplebase-services/docs"
	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/internal/appconfig"
	internalaws "github.com/SampleBase/samplebase-services/internal/aws"
	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/SampleBase/samplebase-services/internal/events"
	"github.com/SampleBase/samplebase-services/internal/mailer"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title SampleBase Services API
// @version v1
// @description This is the API for the SampleBase sample collection platform.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()

		// Initialize event publisher
		notifier := newNotifier(appCfg)
		defer notifier.Close()

		var err error
		sampleBaseDB, err = db.NewSampleBaseDB(notifier, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer sampleBaseDB.Close()

		issuer, err := initializeIssuer(appCfg.Auth)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize token issuer")
		}

		emailMailer, err := initializeMailer(appCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize mailer")
		}

		service := &services.Service{
			Config: appCfg,
			DB:     sampleBaseDB,
			Issuer: issuer,
			Mailer: emailMailer,
		}

		r := newRouter(appCfg, service, issuer)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// newRouter builds the full route table. Authenticated routes are
// registered before the anonymous ones: mux matches in registration order,
// so /users/me must be claimed before the /users/{username} wildcard can
// swallow it.
func newRouter(cfg *appconfig.Config, service *services.Service, issuer *authn.Issuer) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix(cfg.BasePath).Subrouter()
	api.Use(middleware.WithLogger)

	// Auth routes are reachable without a token
	api.HandleFunc("/auth/signup", handlers.Signup(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handlers.Login(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/token", handlers.Refresh(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", handlers.Logout(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset-request", handlers.RequestPasswordReset(service)).Methods(http.MethodPost)
	api.HandleFunc("/auth/password-reset", handlers.ResetPassword(service)).Methods(http.MethodPost)

	// Routes requiring a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTMiddleware(issuer))

	// User routes
	protected.HandleFunc("/users/me", handlers.GetMe(service)).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", handlers.UpdateMe(service)).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me", handlers.DeleteMe(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/users/me/password", handlers.UpdatePassword(service)).Methods(http.MethodPost)

	// Group routes
	protected.HandleFunc("/groups", handlers.CreateGroup(service)).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{group-id}", handlers.UpdateGroup(service)).Methods(http.MethodPatch)
	protected.HandleFunc("/groups/{group-id}", handlers.DeleteGroup(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/groups/{group-id}/members/{username}", handlers.RemoveMember(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/groups/{group-id}/admins/{username}", handlers.GrantAdmin(service)).Methods(http.MethodPut)
	protected.HandleFunc("/groups/{group-id}/admins/{username}", handlers.RevokeAdmin(service)).Methods(http.MethodDelete)

	// Invitation routes
	protected.HandleFunc("/groups/{group-id}/invitations", handlers.CreateInvitation(service)).Methods(http.MethodPost)
	protected.HandleFunc("/invitations/{invitation-id}/accept", handlers.AcceptInvitation(service)).Methods(http.MethodPost)
	protected.HandleFunc("/invitations/{invitation-id}", handlers.DeleteInvitation(service)).Methods(http.MethodDelete)

	// Collection routes
	protected.HandleFunc("/collections", handlers.CreateCollection(service)).Methods(http.MethodPost)
	protected.HandleFunc("/collections", handlers.GetCollections(service)).Methods(http.MethodGet)
	protected.HandleFunc("/collections/{collection-id}", handlers.UpdateCollection(service)).Methods(http.MethodPatch)
	protected.HandleFunc("/collections/{collection-id}", handlers.DeleteCollection(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/collections/{collection-id}/users/{username}", handlers.ShareCollectionUser(service)).Methods(http.MethodPut)
	protected.HandleFunc("/collections/{collection-id}/users/{username}", handlers.UnshareCollectionUser(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/collections/{collection-id}/groups/{group-id}", handlers.ShareCollectionGroup(service)).Methods(http.MethodPut)
	protected.HandleFunc("/collections/{collection-id}/groups/{group-id}", handlers.UnshareCollectionGroup(service)).Methods(http.MethodDelete)

	// Sample and paper routes
	protected.HandleFunc("/collections/{collection-id}/samples", handlers.CreateSample(service)).Methods(http.MethodPost)
	protected.HandleFunc("/samples/{sample-id}", handlers.UpdateSample(service)).Methods(http.MethodPatch)
	protected.HandleFunc("/samples/{sample-id}", handlers.DeleteSample(service)).Methods(http.MethodDelete)
	protected.HandleFunc("/collections/{collection-id}/papers", handlers.CreatePaper(service)).Methods(http.MethodPost)
	protected.HandleFunc("/papers/{paper-id}", handlers.UpdatePaper(service)).Methods(http.MethodPatch)
	protected.HandleFunc("/papers/{paper-id}", handlers.DeletePaper(service)).Methods(http.MethodDelete)

	// Read endpoints where anonymous access is allowed but a valid token
	// upgrades the view
	public := api.NewRoute().Subrouter()
	public.Use(middleware.OptionalJWTMiddleware(issuer))
	public.HandleFunc("/users/{username}", handlers.GetUser(service)).Methods(http.MethodGet)
	public.HandleFunc("/groups/{group-id}", handlers.GetGroup(service)).Methods(http.MethodGet)
	public.HandleFunc("/collections/public", handlers.GetPublicCollections(service)).Methods(http.MethodGet)
	public.HandleFunc("/collections/{collection-id}", handlers.GetCollection(service)).Methods(http.MethodGet)
	public.HandleFunc("/samples/{sample-id}", handlers.GetSample(service)).Methods(http.MethodGet)
	public.HandleFunc("/papers/{paper-id}", handlers.GetPaper(service)).Methods(http.MethodGet)

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return r
}

// commonSetUp configures logging, loads the config file and points the
// database layer at the configured source.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.Setenv("DATABASE_URL", appCfg.Database.Source); err != nil {
		log.Fatal().Err(err).Msg("failed to set DATABASE_URL")
	}
}

// newNotifier connects to Pulsar when a URL is configured, otherwise events
// are discarded.
func newNotifier(cfg *appconfig.Config) events.Notifier {
	if cfg.Pulsar.URL == "" {
		log.Warn().Msg("no Pulsar URL configured, lifecycle events will be discarded")
		return events.NoopNotifier{}
	}

	notifier, err := events.NewPulsarNotifier(cfg.Pulsar.URL, cfg.Pulsar.Topic)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return notifier
}

// initializeIssuer resolves the token signing secret from the environment
// or, failing that, from AWS Secrets Manager.
func initializeIssuer(authCfg appconfig.AuthConfig) (*authn.Issuer, error) {
	secret := os.Getenv("SIGNING_SECRET")
	if secret == "" && authCfg.SecretName != "" {
		cfg, err := internalaws.LoadConfig(context.TODO(), appCfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		client := internalaws.NewSecretsManagerClient(cfg)
		secret, err = internalaws.GetSigningSecret(context.TODO(), client, authCfg.SecretName)
		if err != nil {
			return nil, err
		}
	}
	if secret == "" {
		return nil, fmt.Errorf("no signing secret: set SIGNING_SECRET or auth.secretName")
	}
	return authn.NewIssuer(secret), nil
}

// initializeMailer builds the SES-backed mailer used for password resets
// and invitation notifications.
func initializeMailer(cfg *appconfig.Config) (*mailer.Mailer, error) {
	awsCfg, err := internalaws.LoadConfig(context.TODO(), cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	return &mailer.Mailer{
		Client:       internalaws.NewSESClient(awsCfg),
		FromAddress:  cfg.Mail.FromAddress,
		ResetBaseURL: cfg.Mail.ResetBaseURL,
	}, nil
}
