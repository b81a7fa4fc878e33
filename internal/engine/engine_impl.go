package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/draftline/draftline/internal/persistence"
	"github.com/draftline/draftline/internal/registry"
	"github.com/draftline/draftline/pkg/api"
)

// engineImpl is a synchronous, in-process implementation of
// api.Engine: one session, one actor, strictly sequential steps.
type engineImpl struct {
	store     persistence.SessionStore
	registry  *registry.Registry
	generator api.Generator
	exporter  api.Exporter
	observer  api.Observer

	// now and newID are indirected for tests.
	now   func() time.Time
	newID func() string
}

// Config describes how to construct an engineImpl.
// Only used inside this package; external callers use the helper
// functions on the root package.
type Config struct {
	Store     persistence.SessionStore
	Generator api.Generator
	Exporter  api.Exporter
	Observer  api.Observer
}

// NewEngine creates an Engine from the given configuration.
func NewEngine(cfg Config) api.Engine {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &engineImpl{
		store:     cfg.Store,
		registry:  registry.New(),
		generator: cfg.Generator,
		exporter:  cfg.Exporter,
		observer:  obs,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// NewInMemoryEngine returns an Engine backed by an in-memory session
// store. Best for tests; nothing survives the process.
func NewInMemoryEngine(gen api.Generator, exp api.Exporter) api.Engine {
	return NewEngineWithObserver(persistence.NewInMemoryStore(), gen, exp, nil)
}

// NewInMemoryEngineWithObserver returns an in-memory Engine with the
// given Observer.
func NewInMemoryEngineWithObserver(gen api.Generator, exp api.Exporter, obs api.Observer) api.Engine {
	return NewEngineWithObserver(persistence.NewInMemoryStore(), gen, exp, obs)
}

// NewFileEngine returns an Engine that persists each session as a
// JSON document under dir, written atomically via write-then-rename.
func NewFileEngine(dir string, gen api.Generator, exp api.Exporter) (api.Engine, error) {
	store, err := persistence.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return NewEngineWithObserver(store, gen, exp, nil), nil
}

// NewSQLiteEngine returns an Engine that persists sessions in a
// SQLite database. The caller imports the driver, e.g.
// "modernc.org/sqlite".
func NewSQLiteEngine(db *sql.DB, gen api.Generator, exp api.Exporter) (api.Engine, error) {
	store, err := persistence.NewSQLiteSessionStore(db)
	if err != nil {
		return nil, err
	}
	return NewEngineWithObserver(store, gen, exp, nil), nil
}

// NewPostgresEngine returns an Engine that persists sessions in
// PostgreSQL.
func NewPostgresEngine(db *sql.DB, gen api.Generator, exp api.Exporter) (api.Engine, error) {
	store, err := persistence.NewPostgresSessionStore(db)
	if err != nil {
		return nil, err
	}
	return NewEngineWithObserver(store, gen, exp, nil), nil
}

// NewRedisEngine returns an Engine that persists sessions in Redis.
func NewRedisEngine(client *redis.Client, gen api.Generator, exp api.Exporter) api.Engine {
	return NewEngineWithObserver(persistence.NewRedisSessionStore(client, "draftline:"), gen, exp, nil)
}

// NewEngineWithObserver wires an explicit store and observer.
func NewEngineWithObserver(store persistence.SessionStore, gen api.Generator, exp api.Exporter, obs api.Observer) api.Engine {
	return NewEngine(Config{
		Store:     store,
		Generator: gen,
		Exporter:  exp,
		Observer:  obs,
	})
}

func (e *engineImpl) CreateSession(ctx context.Context, params api.CreateSessionParams) (*api.Session, error) {
	variant := params.Variant
	if variant == "" {
		variant = api.VariantBlog
	}
	if variant != api.VariantBlog && variant != api.VariantWebinar {
		return nil, fmt.Errorf("unknown workflow variant %q: %w", variant, api.ErrInvalidSessionParams)
	}
	if strings.TrimSpace(params.PrimaryKeyword) == "" {
		return nil, fmt.Errorf("primary keyword is required: %w", api.ErrInvalidSessionParams)
	}
	if variant == api.VariantBlog {
		if words := len(strings.Fields(params.BlogType)); words < api.MinBlogTypeWords {
			return nil, fmt.Errorf("blog type must contain at least %d words, got %d: %w",
				api.MinBlogTypeWords, words, api.ErrInvalidSessionParams)
		}
	}

	now := e.now().UTC()
	schemaVersion := e.registry.LatestSchemaVersion(variant)
	terminal := e.registry.Terminal(variant, schemaVersion)

	sess := &api.Session{
		ID:             e.newID(),
		Variant:        variant,
		PrimaryKeyword: strings.TrimSpace(params.PrimaryKeyword),
		BlogType:       strings.TrimSpace(params.BlogType),
		SchemaVersion:  schemaVersion,
		Status:         api.StatusActive,
		CurrentStep:    1,
		Steps:          make(map[int]*api.StepRecord, terminal),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Pre-seed a pending record per catalog step so viewing and
	// listing never have to consult the registry for names.
	for n := 1; n <= terminal; n++ {
		def, err := e.registry.Definition(variant, schemaVersion, n)
		if err != nil {
			return nil, err
		}
		sess.Steps[n] = &api.StepRecord{
			StepNumber: n,
			Name:       def.Name,
			Owner:      def.Owner,
			Status:     api.StepPending,
		}
	}

	if err := e.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	e.observer.OnSessionStart(ctx, sess)
	return sess, nil
}

func (e *engineImpl) GetSession(ctx context.Context, id string) (*api.Session, error) {
	return e.load(ctx, id)
}

func (e *engineImpl) ListSessions(ctx context.Context, opts api.SessionListOptions) ([]api.SessionSummary, error) {
	return e.store.ListSessions(ctx, persistence.SessionFilter{
		Status:  opts.Status,
		Variant: opts.Variant,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
}

func (e *engineImpl) StepDefinition(variant api.WorkflowVariant, schemaVersion, stepNumber int) (api.StepDefinition, error) {
	return e.registry.Definition(variant, schemaVersion, stepNumber)
}

// load fetches a session, translating the store's not-found into the
// api sentinel. Genuine I/O failures pass through untranslated so the
// caller can tell retryable persistence trouble from business rules.
func (e *engineImpl) load(ctx context.Context, id string) (*api.Session, error) {
	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrSessionNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, api.ErrSessionNotFound)
		}
		return nil, err
	}
	return sess, nil
}

// save stamps the update time and persists the whole aggregate.
func (e *engineImpl) save(ctx context.Context, sess *api.Session) error {
	sess.UpdatedAt = e.now().UTC()
	return e.store.UpdateSession(ctx, sess)
}

// advance moves the current-step pointer after a completed or skipped
// step. Finishing the terminal step completes the session instead.
func (e *engineImpl) advance(sess *api.Session, stepNumber int) {
	if stepNumber != sess.CurrentStep {
		// Redo of an earlier step never moves the pointer.
		return
	}
	terminal := e.registry.Terminal(sess.Variant, sess.SchemaVersion)
	if stepNumber >= terminal {
		sess.CurrentStep = terminal
		sess.Status = api.StatusCompleted
		return
	}
	sess.CurrentStep = stepNumber + 1
}
