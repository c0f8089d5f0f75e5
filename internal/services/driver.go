package services

import (
	"sort"

	"github.com/kubev2v/node-inspector/internal/conductor"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

type DriverLister interface {
	conductor.DriverResolver
	List() []*conductor.Driver
}

// DriverInfo describes an enabled driver and the interfaces it implements.
type DriverInfo struct {
	Name       string
	Interfaces []string
}

type DriverService struct {
	drivers DriverLister
}

func NewDriverService(drivers DriverLister) *DriverService {
	return &DriverService{drivers: drivers}
}

func (s *DriverService) List() []DriverInfo {
	drivers := s.drivers.List()
	infos := make([]DriverInfo, 0, len(drivers))
	for _, d := range drivers {
		info := DriverInfo{Name: d.Name, Interfaces: []string{}}
		if d.Inspect != nil {
			info.Interfaces = append(info.Interfaces, "inspect")
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// GetProperties returns the properties accepted by the driver's inspect interface.
func (s *DriverService) GetProperties(name string) (map[string]string, error) {
	d, err := s.drivers.Driver(name)
	if err != nil {
		return nil, err
	}
	if d.Inspect == nil {
		return nil, srvErrors.NewUnsupportedDriverExtensionError(name, "inspect")
	}
	return d.Inspect.GetProperties(), nil
}
