package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/cricket-auction/external/anubis"
	"github.com/riskibarqy/cricket-auction/external/roster"
	"github.com/riskibarqy/cricket-auction/internal/config"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/player"
	"github.com/riskibarqy/cricket-auction/internal/domain/season"
	"github.com/riskibarqy/cricket-auction/internal/domain/team"
	cacherepo "github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-auction/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-auction/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/cricket-auction/internal/platform/cache"
	idgen "github.com/riskibarqy/cricket-auction/internal/platform/id"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// App is the assembled HTTP service plus the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
}

// Close releases resources opened by New. The HTTP server is shut down by the
// caller.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

type rosterRepos struct {
	players player.Repository
	teams   team.Repository
	seasons season.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var db *sqlx.DB
	if cfg.StorageDriver == config.StoragePostgres {
		var err error
		db, err = openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}
	app := &App{db: db}

	store, roster, err := buildStorage(ctx, cfg, db, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	roster = withRosterCache(cfg, roster)

	seasons := usecase.NewSeasonResolver(roster.seasons, cfg.CurrentSeason)
	capPolicy := usecase.CapPolicy{
		Enforced:   cfg.SalaryCapEnforced,
		DefaultCap: cfg.DefaultSalaryCap,
	}
	ids := idgen.NewUUIDGenerator()

	auctionSvc := usecase.NewAuctionService(store, roster.players, roster.teams, seasons, ids, capPolicy, logger, nil)
	contractSvc := usecase.NewContractService(store, roster.players, roster.teams, seasons, ids, capPolicy, logger, nil)
	salaryCapSvc := usecase.NewSalaryCapService(store, roster.teams, capPolicy, cfg.CapRecomputeWorkers, logger, nil)

	anubisClient := anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisCacheTTL,
		CacheMaxItems:  cfg.AnubisCacheMaxItems,
		CircuitBreaker: cfg.AnubisCircuit,
		Logger:         logger,
	})

	handler := httpapi.NewHandler(auctionSvc, contractSvc, salaryCapSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"storage_driver", cfg.StorageDriver,
		"roster_source", cfg.RosterSource,
		"cache_enabled", cfg.CacheEnabled,
		"salary_cap_enforced", cfg.SalaryCapEnforced,
		"current_season", cfg.CurrentSeason,
	)

	return app, nil
}

// buildStorage picks the ledger store and the roster directory. A remote
// roster replaces only the reference data; ledgers always live in storage.
func buildStorage(ctx context.Context, cfg config.Config, db *sqlx.DB, logger *logging.Logger) (ledger.Store, rosterRepos, error) {
	var (
		store ledger.Store
		repos rosterRepos
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		store = postgres.NewLedgerStore(db)
		repos = rosterRepos{
			players: postgres.NewPlayerRepository(db),
			teams:   postgres.NewTeamRepository(db),
			seasons: postgres.NewSeasonRepository(db),
		}
		if cfg.SeedFile != "" && cfg.RosterSource == config.RosterFromStorage {
			seed, err := memory.LoadRosterFile(cfg.SeedFile)
			if err != nil {
				return nil, rosterRepos{}, err
			}
			if err := postgres.BootstrapSeed(ctx, db, seed); err != nil {
				return nil, rosterRepos{}, err
			}
			logger.Info("roster seed bootstrapped", "file", cfg.SeedFile)
		}
	default:
		seed := memory.SeedRoster()
		if cfg.SeedFile != "" {
			loaded, err := memory.LoadRosterFile(cfg.SeedFile)
			if err != nil {
				return nil, rosterRepos{}, err
			}
			seed = loaded
		}
		store = memory.NewLedgerStore()
		repos = rosterRepos{
			players: memory.NewPlayerRepository(seed.Players),
			teams:   memory.NewTeamRepository(seed.Teams),
			seasons: memory.NewSeasonRepository(seed.Seasons),
		}
	}

	if cfg.RosterSource == config.RosterFromRemote {
		client := roster.NewClient(roster.ClientConfig{
			BaseURL:        cfg.RosterBaseURL,
			Token:          cfg.RosterToken,
			Timeout:        cfg.RosterTimeout,
			MaxRetries:     cfg.RosterMaxRetries,
			CircuitBreaker: cfg.RosterCircuit,
			Logger:         logger,
		})
		repos = rosterRepos{
			players: client.Players(),
			teams:   client.Teams(),
			seasons: client.Seasons(),
		}
	}

	return store, repos, nil
}

func withRosterCache(cfg config.Config, repos rosterRepos) rosterRepos {
	if !cfg.CacheEnabled {
		return repos
	}
	store := basecache.NewStore(cfg.CacheTTL)
	return rosterRepos{
		players: cacherepo.NewPlayerRepository(repos.players, store),
		teams:   cacherepo.NewTeamRepository(repos.teams, store),
		seasons: cacherepo.NewSeasonRepository(repos.seasons, store),
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("ping postgres: timed out after %s", dbPingTimeout)
		}
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected", "dsn", redactDBURL(dsn))
	return db, nil
}
