package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/studykit/pkg/adapters/fs"
	"github.com/aretw0/studykit/pkg/adapters/redis"
	"github.com/aretw0/studykit/pkg/adapters/sql"
	"github.com/aretw0/studykit/pkg/core"
)

// New creates a core.Service over the adapter selected by opts.
// The URI argument is adapter-specific: a directory for "fs", a server
// address for "redis" and a DSN for "sql".
func New(uri string, opts ...Option) (*core.Service, error) {
	o := resolve(opts)
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo, o.logger, o.eventBuffer), nil
}

// Init builds and initializes the repository selected by opts.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(uri, resolve(opts))
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var (
		repo core.Repository
		err  error
	)
	switch o.adapter {
	case AdapterFS:
		repo = initFS(uri, o)
	case AdapterRedis:
		repo = initRedis(uri, o)
	case AdapterSQL:
		repo, err = sql.Open(sql.Config{DSN: uri, ReadOnly: o.readOnly, Logger: o.logger})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	o.logger.Debug("repository initialized", "adapter", o.adapter, "uri", uri, "read_only", o.readOnly)
	return repo, nil
}

func initFS(path string, o *options) core.Repository {
	if path == "" {
		path = "."
	}
	return fs.NewRepository(fs.Config{
		Path:         path,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		SystemDir:    o.systemDir,
		ErrorHandler: o.errorHandler,
	})
}

func initRedis(addr string, o *options) core.Repository {
	cfg := o.redis
	if addr != "" {
		cfg.Addr = addr
	}
	return redis.NewRepository(redis.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Prefix:   cfg.Prefix,
		ReadOnly: o.readOnly,
		Logger:   o.logger,
	})
}
