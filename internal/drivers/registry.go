package drivers

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/internal/services"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

const (
	IPMI          = "ipmi"
	FakeInspector = "fake-inspector"
	FakeHardware  = "fake-hardware"
)

// Registry holds the enabled hardware drivers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]*conductor.Driver
}

func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]*conductor.Driver)}
}

// Load builds and registers every driver named in conductor.enabled_drivers.
func (r *Registry) Load(cfg *config.Configuration, deps services.InspectorDeps) error {
	for _, name := range cfg.Conductor.EnabledDrivers {
		d, err := build(name, cfg, deps)
		if err != nil {
			return err
		}
		r.Register(d)
		zap.S().Named("drivers").Infow("driver loaded", "driver", name, "inspect", d.Inspect != nil)
	}
	return nil
}

func (r *Registry) Register(d *conductor.Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[d.Name] = d
}

func (r *Registry) Driver(name string) (*conductor.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]
	if !ok {
		return nil, srvErrors.NewDriverNotFoundError(name)
	}
	return d, nil
}

func (r *Registry) List() []*conductor.Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]*conductor.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		drivers = append(drivers, d)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].Name < drivers[j].Name })
	return drivers
}

func build(name string, cfg *config.Configuration, deps services.InspectorDeps) (*conductor.Driver, error) {
	d := &conductor.Driver{Name: name}

	switch name {
	case IPMI:
		inspector, err := services.CreateIfEnabled(cfg.Inspector, name, deps)
		if err != nil {
			return nil, err
		}
		// a nil *Inspector must not end up as a non-nil interface
		if inspector != nil {
			d.Inspect = inspector
		}
	case FakeInspector:
		inspector, err := services.NewInspector(deps)
		if err != nil {
			return nil, err
		}
		d.Inspect = inspector
	case FakeHardware:
		d.Inspect = FakeInspect{}
	default:
		return nil, srvErrors.NewDriverLoadError(name, fmt.Sprintf("unknown driver %q", name))
	}

	return d, nil
}
