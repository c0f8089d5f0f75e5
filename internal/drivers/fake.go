package drivers

import (
	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/models"
)

// FakeInspect completes inspection synchronously without touching any hardware.
type FakeInspect struct{}

func (FakeInspect) GetProperties() map[string]string {
	return map[string]string{}
}

func (FakeInspect) Validate(*conductor.Task) error {
	return nil
}

func (FakeInspect) InspectHardware(*conductor.Task) (models.ProvisionState, error) {
	return models.ProvisionStateManageable, nil
}
