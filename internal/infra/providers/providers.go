package providers

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/client"
	"github.com/totegamma/apub-playground/internal/config"
	"github.com/totegamma/apub-playground/internal/conversion"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/infra/database"
	"github.com/totegamma/apub-playground/internal/infra/repository"
	"github.com/totegamma/apub-playground/internal/metrics"
	"github.com/totegamma/apub-playground/internal/service"
	"github.com/totegamma/apub-playground/internal/store"
	"github.com/totegamma/apub-playground/internal/usecase"
)

// Stores bundles the post and actor stores.
type Stores struct {
	Posts  store.Store[domain.Post]
	Actors store.Store[domain.Actor]
}

// NewDatabase opens a Postgres connection and applies migrations.
func NewDatabase(conf config.Server) (*gorm.DB, error) {
	db, err := database.NewPostgres(conf.PostgresDsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}
	if err := database.MigratePostgres(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return db, nil
}

// NewStores returns Postgres-backed stores when db is set and in-memory ones otherwise.
func NewStores(db *gorm.DB) Stores {
	if db == nil {
		return Stores{
			Posts:  store.NewPostMemory(),
			Actors: store.NewActorMemory(),
		}
	}
	return Stores{
		Posts:  repository.NewPostRepository(db),
		Actors: repository.NewActorRepository(db),
	}
}

// NewClient constructs the HTTP client used to talk to other nodes.
// Webfinger answers are cached in memcached when an address is configured.
func NewClient(conf config.Config, logger *zap.Logger) (*client.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := client.Options{
		Timeout:   conf.Server.FetchTimeout,
		UserAgent: conf.NodeInfo.UserAgent,
		Scheme:    conf.NodeInfo.Scheme,
		Logger:    logger,
	}
	if conf.Server.MemcachedAddr != "" {
		mc, err := database.NewMemcached(conf.Server.MemcachedAddr, time.Second)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect memcached")
		}
		opts.Cache = client.NewMemcache(mc, 10*time.Minute, logger.Named("memcache"))
	}
	return client.New(opts), nil
}

var _ Remote = (*client.Client)(nil)

// NewSignalService returns nil when no redis address is configured.
func NewSignalService(ctx context.Context, conf config.Server, logger *zap.Logger) (*service.SignalService, error) {
	if conf.RedisAddr == "" {
		return nil, nil
	}
	rdb, err := database.NewRedis(ctx, conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect redis")
	}
	return service.NewSignalService(rdb, logger), nil
}

// Remote is the transport used to reach other nodes.
type Remote interface {
	apub.Fetcher
	usecase.Finger
}

// Application holds the wired use cases.
type Application struct {
	Node    usecase.NodeInfo
	Posts   *usecase.PostUsecase
	Actors  *usecase.ActorUsecase
	Inbox   *usecase.InboxUsecase
	Signal  *service.SignalService
	Metrics *metrics.Metrics
}

// NewApplication wires resolvers, converters and use cases on top of the given stores.
func NewApplication(
	conf config.Config,
	stores Stores,
	remote Remote,
	signal *service.SignalService,
	registry prometheus.Registerer,
	logger *zap.Logger,
) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	node := usecase.NodeInfo{
		Domain: conf.NodeInfo.FQDN,
		Scheme: conf.NodeInfo.Scheme,
	}
	m := metrics.New(registry)

	actorConv := conversion.NewActorConverter(stores.Actors)
	actorResolver := apub.NewResolver[domain.Actor, domain.Person](node.Domain, actorConv, remote,
		apub.WithLogger(logger.Named("resolver.actor")),
		apub.WithObserver(m),
	)

	postConv := conversion.NewPostConverter(stores.Posts, actorResolver)
	postResolver := apub.NewResolver[domain.Post, domain.Note](node.Domain, postConv, remote,
		apub.WithLogger(logger.Named("resolver.post")),
		apub.WithObserver(m),
	)

	var publisher usecase.Publisher
	if signal != nil {
		publisher = signal
	}

	posts := usecase.NewPostUsecase(node, stores.Posts, postResolver, actorResolver, postConv, publisher, logger.Named("post"))
	actors := usecase.NewActorUsecase(node, stores.Actors, actorResolver, actorConv, remote, publisher, logger.Named("actor"))
	inbox := usecase.NewInboxUsecase(posts, actors, m)

	return &Application{
		Node:    node,
		Posts:   posts,
		Actors:  actors,
		Inbox:   inbox,
		Signal:  signal,
		Metrics: m,
	}
}
