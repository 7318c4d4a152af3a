package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"hackterm/internal/codec"
	"hackterm/internal/domain"
	"hackterm/internal/generator"
	"hackterm/internal/repository"
	"hackterm/internal/repository/file"
)

// MaxScan is the most neighbors a scan reports
const MaxScan = domain.MaxLinks

// Recorder receives persistence and network size measurements
type Recorder interface {
	PersistenceOp(operation string, err error)
	NetworkSize(servers int)
}

type nopRecorder struct{}

func (nopRecorder) PersistenceOp(string, error) {}
func (nopRecorder) NetworkSize(int) {}

// Session owns a network and the player's position in it
type Session struct {
	net     *domain.Network
	home    domain.ServerID
	current domain.ServerID

	rng      domain.Rand
	gen      *generator.Generator
	store    repository.SaveStore
	archive  repository.Archive
	events   *EventBus
	recorder Recorder
	log      logrus.FieldLogger
	lastSeed uint64
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRand shares one random source across every network the session
// generates, so seed 0 continues from its current state.
func WithRand(r domain.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithGenerator sets the topology generator
func WithGenerator(g *generator.Generator) Option {
	return func(s *Session) {
		if g != nil {
			s.gen = g
		}
	}
}

// WithStore sets the save file backend
func WithStore(store repository.SaveStore) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithArchive enables snapshots
func WithArchive(a repository.Archive) Option {
	return func(s *Session) { s.archive = a }
}

// WithEventBus sets the bus state changes are published on
func WithEventBus(bus *EventBus) Option {
	return func(s *Session) {
		if bus != nil {
			s.events = bus
		}
	}
}

// WithRecorder reports measurements to r
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewSession creates a session holding an empty network
func NewSession(opts ...Option) *Session {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Session{
		gen:      generator.New(),
		store:    file.New(),
		events:   NewEventBus(),
		recorder: nopRecorder{},
		log:      quiet,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.net = s.newNetwork()
	return s
}

func (s *Session) newNetwork() *domain.Network {
	if s.rng != nil {
		return domain.NewNetwork(domain.WithRand(s.rng))
	}
	return domain.NewNetwork()
}

// Events returns the session's event bus
func (s *Session) Events() *EventBus {
	return s.events
}

// Generate discards the current network and builds a new one. The
// cursor is reset to server 0.
func (s *Session) Generate(params generator.Params, seed uint64) generator.Result {
	s.net = s.newNetwork()
	res := s.gen.Generate(s.net, params, seed)
	s.home, s.current = 0, 0
	s.lastSeed = seed

	s.recorder.NetworkSize(s.net.Len())
	s.log.WithFields(logrus.Fields{
		"seed":      seed,
		"servers":   res.Servers,
		"mesh":      res.MeshLinks,
		"truncated": res.Truncated,
	}).Info("Generated network")

	s.events.Publish(Event{
		Type: EventNetworkGenerated,
		Payload: map[string]interface{}{
			"servers":     res.Servers,
			"seed":        seed,
			"fingerprint": s.net.Fingerprint(),
		},
	})

	return res
}

// Network returns the network owned by the session
func (s *Session) Network() *domain.Network {
	return s.net
}

// Home returns the home server id
func (s *Session) Home() domain.ServerID {
	return s.home
}

// Current returns the server the player is on
func (s *Session) Current() domain.ServerID {
	return s.current
}

// Seed returns the seed of the last generation, 0 if none
func (s *Session) Seed() uint64 {
	return s.lastSeed
}

// Server looks up a server by id
func (s *Session) Server(id domain.ServerID) (*domain.Server, error) {
	srv, ok := s.net.Server(id)
	if !ok {
		return nil, fmt.Errorf("server %d: %w", id, domain.ErrNotFound)
	}
	return srv, nil
}

// CurrentServer returns the server the player is on
func (s *Session) CurrentServer() (*domain.Server, error) {
	return s.Server(s.current)
}

// Scan lists the neighbors of the current server, at most MaxScan
func (s *Session) Scan() []domain.ServerID {
	links := s.net.Neighbors(s.current)
	if len(links) > MaxScan {
		links = links[:MaxScan]
	}
	return append([]domain.ServerID(nil), links...)
}

// Connect moves the player to a direct neighbor of the current server.
// The cursor is unchanged on error.
func (s *Session) Connect(id domain.ServerID) error {
	if !s.net.Valid(id) {
		return fmt.Errorf("connect %d: %w", id, domain.ErrNotFound)
	}
	if !s.net.HasLink(s.current, id) {
		return fmt.Errorf("connect %d from %d: %w", id, s.current, domain.ErrNotLinked)
	}

	from := s.current
	s.current = id

	srv, _ := s.net.Server(id)
	s.log.WithFields(logrus.Fields{
		"server_id": id,
		"server":    srv.Name,
	}).Debug("Connected")

	s.events.Publish(Event{
		Type:    EventConnected,
		Payload: map[string]interface{}{"from": int(from), "to": int(id), "server": srv.Name},
	})
	return nil
}

// ConnectByName resolves name to the lowest matching id and connects to
// it. The resolved id is returned even when the server is not linked.
func (s *Session) ConnectByName(name string) (domain.ServerID, error) {
	if name == "" {
		return domain.InvalidID, fmt.Errorf("connect: empty name: %w", domain.ErrInvalidArgument)
	}

	target, ok := s.net.FindByName(name)
	if !ok {
		return domain.InvalidID, fmt.Errorf("connect %q: %w", name, domain.ErrNotFound)
	}

	if err := s.Connect(target); err != nil {
		return target, err
	}
	return target, nil
}

// Save writes the network and cursor to path
func (s *Session) Save(path string) error {
	if path == "" {
		return fmt.Errorf("save: empty path: %w", domain.ErrInvalidArgument)
	}

	err := s.store.Save(path, codec.Encode(s.net, s.home, s.current))
	s.recorder.PersistenceOp("save", err)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("Save failed")
		return err
	}

	s.log.WithFields(logrus.Fields{"path": path, "servers": s.net.Len()}).Info("Saved game")
	s.events.Publish(Event{Type: EventSaved, Payload: map[string]string{"path": path}})
	return nil
}

// Load replaces the network and cursor with the contents of path. On
// error the session is unchanged.
func (s *Session) Load(path string) error {
	if path == "" {
		return fmt.Errorf("load: empty path: %w", domain.ErrInvalidArgument)
	}

	err := s.load(path)
	s.recorder.PersistenceOp("load", err)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("Load failed")
		return err
	}

	s.log.WithFields(logrus.Fields{"path": path, "servers": s.net.Len()}).Info("Loaded game")
	s.events.Publish(Event{Type: EventLoaded, Payload: map[string]string{"path": path}})
	return nil
}

func (s *Session) load(path string) error {
	doc, err := s.store.Load(path)
	if err != nil {
		return err
	}
	return s.adopt(doc)
}

func (s *Session) adopt(doc *codec.Document) error {
	var opts []domain.Option
	if s.rng != nil {
		opts = append(opts, domain.WithRand(s.rng))
	}

	restored, err := doc.Decode(opts...)
	if err != nil {
		return err
	}

	s.net = restored.Network
	s.home = restored.Home
	s.current = restored.Current
	s.recorder.NetworkSize(s.net.Len())
	return nil
}

// Snapshot archives the current game under label
func (s *Session) Snapshot(ctx context.Context, label string) (*repository.Snapshot, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("snapshot: no archive configured: %w", domain.ErrFile)
	}

	snap, err := s.archive.Put(ctx, label, codec.Encode(s.net, s.home, s.current))
	s.recorder.PersistenceOp("snapshot", err)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"snapshot": snap.ID,
		"label":    label,
		"servers":  snap.ServerCount,
	}).Info("Created snapshot")
	s.events.Publish(Event{
		Type:    EventSnapshotCreated,
		Payload: map[string]string{"id": snap.ID, "label": label},
	})
	return snap, nil
}

// Restore replaces the current game with an archived snapshot
func (s *Session) Restore(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("restore: empty id: %w", domain.ErrInvalidArgument)
	}
	if s.archive == nil {
		return fmt.Errorf("restore: no archive configured: %w", domain.ErrFile)
	}

	err := s.restore(ctx, id)
	s.recorder.PersistenceOp("restore", err)
	if err != nil {
		return err
	}

	s.log.WithField("snapshot", id).Info("Restored snapshot")
	s.events.Publish(Event{Type: EventSnapshotRestored, Payload: map[string]string{"id": id}})
	return nil
}

func (s *Session) restore(ctx context.Context, id string) error {
	snap, err := s.archive.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.adopt(snap.Document)
}

// Snapshots lists archived snapshots, newest first
func (s *Session) Snapshots(ctx context.Context) ([]repository.Snapshot, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.List(ctx)
}

// Document captures the current game as a save document
func (s *Session) Document() *codec.Document {
	return codec.Encode(s.net, s.home, s.current)
}
