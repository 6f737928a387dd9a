// Package content is the embedded-content host: it creates content views,
// loads their pages through per-partition network stacks, reads page
// metadata and runs page scripts.
//
// Views are used from the control thread. Network work runs on goroutines
// and its results come back through a Dispatcher, so every view signal is
// delivered on the control thread.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
	"github.com/chrisuehlinger/vibeshell/network"
	"github.com/chrisuehlinger/vibeshell/storage"
)

// DefaultPartition names the partition used by views created without one.
const DefaultPartition = "default"

// ErrForeignPartition is returned for partitions this host did not create.
var ErrForeignPartition = errors.New("content: partition from another host")

// Option configures a Host.
type Option func(*Host)

// WithUserAgent sets the User-Agent of every partition's client.
func WithUserAgent(ua string) Option {
	return func(h *Host) {
		h.userAgent = ua
	}
}

// WithTimeout bounds each page fetch.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithScriptTimeout bounds each script run. Zero disables the limit.
func WithScriptTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.scriptTimeout = d
	}
}

// WithStore sets the function that opens page storage for a persistent
// partition, such as (*storage.SQLite).Namespace. Ephemeral partitions,
// and all partitions when no store is set, keep page storage in memory.
func WithStore(open func(partition string) storage.Provider) Option {
	return func(h *Host) {
		h.store = open
	}
}

// WithLogger sets the host's logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Host) {
		h.log = log
	}
}

var (
	_ host.ContentHost = (*Host)(nil)
	_ host.SessionHost = (*Host)(nil)
	_ host.ContentView = (*View)(nil)
)

// Host implements host.ContentHost and host.SessionHost.
type Host struct {
	dispatch      Dispatcher
	userAgent     string
	timeout       time.Duration
	scriptTimeout time.Duration
	store         func(partition string) storage.Provider
	log           *slog.Logger

	partitions map[string]*Partition
	views      map[int]*View
	nextID     int
	focused    *View
}

// NewHost creates a content host delivering its signals through d.
func NewHost(d Dispatcher, opts ...Option) *Host {
	h := &Host{
		dispatch:      d,
		timeout:       30 * time.Second,
		scriptTimeout: 5 * time.Second,
		partitions:    make(map[string]*Partition),
		views:         make(map[int]*View),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logging.New("content")
	}
	return h
}

// Partition is a named network and storage context. Views sharing a
// partition share cookies, the response cache and page storage.
type Partition struct {
	name    string
	persist bool
	loader  *network.Loader
	store   storage.Provider
}

func (p *Partition) Name() string { return p.name }
func (p *Partition) Persistent() bool { return p.persist }

// Loader returns the partition's network loader.
func (p *Partition) Loader() *network.Loader { return p.loader }

// Store returns the provider backing page storage.
func (p *Partition) Store() storage.Provider { return p.store }

// FromPartition implements host.SessionHost. The options only apply when
// the partition is created.
func (h *Host) FromPartition(name string, opts host.PartitionOptions) (host.Partition, error) {
	p, err := h.partition(name, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (h *Host) partition(name string, opts host.PartitionOptions) (*Partition, error) {
	if name == "" {
		return nil, errors.New("content: empty partition name")
	}
	if p, ok := h.partitions[name]; ok {
		return p, nil
	}

	client, err := network.NewClient(network.WithUserAgent(h.userAgent), network.WithTimeout(h.timeout))
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", name, err)
	}
	var loaderOpts []network.LoaderOption
	if opts.Cache {
		loaderOpts = append(loaderOpts, network.WithCache(network.NewCache(0)))
	}

	var store storage.Provider = storage.NewMemory()
	if opts.Persist && h.store != nil {
		store = h.store(name)
	}

	p := &Partition{
		name:    name,
		persist: opts.Persist,
		loader:  network.NewLoader(client, loaderOpts...),
		store:   store,
	}
	h.partitions[name] = p
	h.log.Debug("partition created", "partition", name, "persist", opts.Persist, "cache", opts.Cache)
	return p, nil
}

// CreateView implements host.ContentHost.
func (h *Host) CreateView(opts host.ViewOptions) (host.ContentView, error) {
	v, err := h.NewView(opts)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// NewView is CreateView returning the concrete view.
func (h *Host) NewView(opts host.ViewOptions) (*View, error) {
	var p *Partition
	switch hp := opts.Partition.(type) {
	case nil:
		var err error
		if p, err = h.partition(DefaultPartition, host.PartitionOptions{Cache: true}); err != nil {
			return nil, err
		}
	case *Partition:
		if h.partitions[hp.name] != hp {
			return nil, ErrForeignPartition
		}
		p = hp
	default:
		return nil, ErrForeignPartition
	}

	h.nextID++
	v := newView(h, h.nextID, p, opts.BackgroundColor)
	h.views[v.id] = v
	return v, nil
}

// View returns the live view with id, or nil.
func (h *Host) View(id int) *View {
	return h.views[id]
}

// Len returns the number of live views.
func (h *Host) Len() int {
	return len(h.views)
}

// Focused returns the view holding input focus, or nil.
func (h *Host) Focused() *View {
	return h.focused
}

func (h *Host) focus(v *View) {
	h.focused = v
}

func (h *Host) forget(v *View) {
	delete(h.views, v.id)
	if h.focused == v {
		h.focused = nil
	}
}
