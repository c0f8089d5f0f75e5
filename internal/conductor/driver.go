package conductor

import "github.com/kubev2v/node-inspector/internal/models"

// InspectInterface is the hardware inspection capability of a driver.
type InspectInterface interface {
	// GetProperties returns the driver-specific properties accepted by the interface.
	GetProperties() map[string]string
	// Validate checks the node can be inspected.
	Validate(task *Task) error
	// InspectHardware starts inspection and returns the state the node should move to.
	InspectHardware(task *Task) (models.ProvisionState, error)
}

// Driver binds a hardware type to the interfaces it implements.
// A nil Inspect means the driver cannot inspect hardware.
type Driver struct {
	Name    string
	Inspect InspectInterface
}

// DriverResolver returns the enabled driver with the given name.
type DriverResolver interface {
	Driver(name string) (*Driver, error)
}
