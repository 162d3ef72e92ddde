package apub

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("apub")

// Converter maps one domain kind D to and from its wire form W.
type Converter[D any, W WireObject] interface {
	// Kind is the wire type discriminator, e.g. "Note".
	Kind() string
	ToWire(ctx context.Context, obj D) (W, error)
	// FromWire builds a federated domain object and registers it.
	FromWire(ctx context.Context, wire W) (D, error)
	// ReadLocal looks the object up in local storage only. It never touches
	// the network and reports absence with ok == false.
	ReadLocal(ctx context.Context, id ObjectID[D]) (obj D, ok bool, err error)
}

// Fetcher retrieves remote documents. Errors must match ErrFetchFailed.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Observer receives one call per resolution.
type Observer interface {
	ObserveResolve(kind, source string, err error, elapsed time.Duration)
}

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

type Option func(*options)

type options struct {
	logger   *zap.Logger
	observer Observer
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Resolver turns identifiers into domain objects: local identifiers are read
// from storage, everything else is fetched and converted.
type Resolver[D any, W WireObject] struct {
	localDomain string
	conv        Converter[D, W]
	fetcher     Fetcher
	logger      *zap.Logger
	observer    Observer
}

func NewResolver[D any, W WireObject](localDomain string, conv Converter[D, W], fetcher Fetcher, opts ...Option) *Resolver[D, W] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver[D, W]{
		localDomain: localDomain,
		conv:        conv,
		fetcher:     fetcher,
		logger:      o.logger,
		observer:    o.observer,
	}
}

// LocalDomain returns the domain this resolver treats as its own.
func (r *Resolver[D, W]) LocalDomain() string {
	return r.localDomain
}

func (r *Resolver[D, W]) Resolve(ctx context.Context, id ObjectID[D]) (D, error) {
	ctx, span := tracer.Start(ctx, "Apub.Resolver.Resolve")
	defer span.End()

	span.SetAttributes(
		attribute.String("kind", r.conv.Kind()),
		attribute.String("id", id.String()),
	)

	start := time.Now()
	source := SourceRemote
	if id.IsLocal(r.localDomain) {
		source = SourceLocal
	}

	var (
		obj D
		err error
	)
	if source == SourceLocal {
		obj, err = r.resolveLocal(ctx, id)
	} else {
		obj, err = r.resolveRemote(ctx, id)
	}

	if r.observer != nil {
		r.observer.ObserveResolve(r.conv.Kind(), source, err, time.Since(start))
	}
	if err != nil {
		span.RecordError(errors.Wrap(err, "Apub.Resolver.Resolve failed"))
		var zero D
		return zero, err
	}
	return obj, nil
}

func (r *Resolver[D, W]) resolveLocal(ctx context.Context, id ObjectID[D]) (D, error) {
	var zero D
	if id.IsZero() {
		return zero, InvalidAddressError{Reason: "address cannot be empty"}
	}

	obj, ok, err := r.conv.ReadLocal(ctx, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, NotFoundError{Resource: id.String()}
	}
	return obj, nil
}

func (r *Resolver[D, W]) resolveRemote(ctx context.Context, id ObjectID[D]) (D, error) {
	var zero D
	if id.IsZero() {
		return zero, InvalidAddressError{Reason: "address cannot be empty"}
	}

	r.logger.Debug("fetching remote object",
		zap.String("kind", r.conv.Kind()),
		zap.String("id", id.String()),
	)

	body, err := r.fetcher.Fetch(ctx, id.String())
	if err != nil {
		r.logger.Warn("remote fetch failed", zap.String("id", id.String()), zap.Error(err))
		return zero, err
	}

	wire, err := Decode[W](body, r.conv.Kind())
	if err != nil {
		return zero, err
	}

	fetched, err := ParseObjectID[D](wire.Address())
	if err != nil {
		return zero, ValidationError{Field: "id", Err: err}
	}
	if !sameDomain(fetched.Domain(), id.Domain()) {
		return zero, ValidationError{
			Field:  "id",
			Reason: "object " + fetched.String() + " was served by " + id.Domain(),
		}
	}

	return r.conv.FromWire(ctx, wire)
}

// ResolveAll resolves ids concurrently. Results keep the order of ids; the
// first error cancels the remaining resolutions.
func (r *Resolver[D, W]) ResolveAll(ctx context.Context, ids []ObjectID[D]) ([]D, error) {
	out := make([]D, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			obj, err := r.Resolve(ctx, id)
			if err != nil {
				return err
			}
			out[i] = obj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
