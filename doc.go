// Package draftline is an embeddable workflow core for guided,
// human+AI blog creation.
//
// It drives a fixed 22-step blog workflow (or the 15-step
// webinar-to-blog variant) for one session at a time: each step is
// AI-executed, human-executed, or two-phase (human input → AI-generated
// prompts → human answers → AI synthesis), and the accumulated step
// outputs feed forward as generation context for later steps.
//
// # Core Concepts
//
//  1. Engine: the session state machine
//  2. Step catalog: the fixed, ordered step definitions
//  3. Generator / Exporter: the external AI and export collaborators
//  4. Session stores: pluggable persistence backends
//  5. Observers: logging and metrics hooks
//
// # Engine
//
// The Engine creates sessions, executes steps, and enforces the
// workflow invariants:
//
//   - strictly sequential execution by current step
//   - skip only where the catalog allows it, always with a reason
//   - input-count thresholds on human steps, with an explicit
//     proceed-with-fewer override gated on a justification
//   - redo of completed AI steps, superseding the prior output while
//     keeping it in the record's history
//   - two-phase steps whose phase2 answers must match the
//     phase1-generated prompts one for one
//
// Every mutation is persisted whole before the call returns; a failed
// AI call leaves the session exactly as it was, so retries are
// side-effect free.
//
// Engines can be backed by different storage systems:
//
//   - In-memory (non-durable, best for tests)
//   - JSON files on disk (one document per session, atomic rename)
//   - SQLite (embedded durability)
//   - Postgres
//   - Redis
//
// # Collaborators
//
// AI-owned steps delegate to a Generator, an opaque asynchronous
// operation the engine awaits at a single point. The export step hands
// the assembled content to an Exporter. Both are interfaces supplied
// at construction; the engine never builds prompts or artifacts
// itself.
//
// # Observers
//
// Observers receive session and step lifecycle callbacks.
// LoggingObserver writes structured logs via log/slog, BasicMetrics
// collects counters, and CompositeObserver fans out to several at
// once.
//
// For examples, see the /examples directory or the package example
// tests.
package draftline
