package service

import (
	"context"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
)

const TEMPLATE_RESULT = "Demo Template Result"

// DemoIntegration answers every backend query from the in-memory store.
type DemoIntegration struct {
	Store        port.EntityStore
	Dispatcher   port.ServiceDispatcher
	LocationName string
	Clock        func() time.Time
}

func NewDemoIntegration(store port.EntityStore, dispatcher port.ServiceDispatcher, locationName string) *DemoIntegration {
	if locationName == "" {
		locationName = domain.DEMO_SERVER_NAME
	}
	return &DemoIntegration{
		Store:        store,
		Dispatcher:   dispatcher,
		LocationName: locationName,
		Clock:        func() time.Time { return time.Now().UTC() },
	}
}

func (i *DemoIntegration) Entities(ctx context.Context) []domain.Entity {
	return i.Store.List()
}

func (i *DemoIntegration) Entity(ctx context.Context, entityId string) (domain.Entity, bool) {
	return i.Store.Get(entityId)
}

func (i *DemoIntegration) Zones(ctx context.Context) []domain.Entity {
	return []domain.Entity{domain.HomeZone(i.Clock())}
}

func (i *DemoIntegration) Config(ctx context.Context) domain.BackendConfig {
	return domain.BackendConfig{
		Components: []string{
			domain.DOMAIN_LIGHT, domain.DOMAIN_SWITCH, domain.DOMAIN_SENSOR,
			domain.DOMAIN_BINARY_SENSOR, domain.DOMAIN_CLIMATE, domain.DOMAIN_LOCK,
		},
		ConfigDir:    "/config",
		LocationName: i.LocationName,
		TimeZone:     "UTC",
		UnitSystem: map[string]string{
			"length":      "km",
			"mass":        "kg",
			"temperature": "°C",
			"volume":      "L",
		},
		Version:               domain.DEMO_HA_VERSION,
		WhitelistExternalDirs: []string{},
	}
}

func (i *DemoIntegration) Version(ctx context.Context) string {
	return domain.DEMO_HA_VERSION
}

// VersionAtLeast reports true for any version so every host feature gated on
// the backend version stays enabled.
func (i *DemoIntegration) VersionAtLeast(year, month, release int) bool {
	return true
}

func (i *DemoIntegration) Services(ctx context.Context) []domain.Service {
	return []domain.Service{}
}

// CallService dispatches the call and returns the target entity when a
// transition was applied.
func (i *DemoIntegration) CallService(ctx context.Context, domainName string, service string, data map[string]any) []domain.Entity {
	if !i.Dispatcher.Dispatch(domainName, service, data) {
		return []domain.Entity{}
	}
	entityId, _ := TargetOf(data)
	e, ok := i.Store.Get(entityId)
	if !ok {
		return []domain.Entity{}
	}
	return []domain.Entity{e}
}

func (i *DemoIntegration) Registration(ctx context.Context) domain.DeviceRegistration {
	return domain.DeviceRegistration{
		AppVersion: "Demo Version",
		DeviceName: "Demo Device",
		PushToken:  "demo_token",
	}
}

func (i *DemoIntegration) RateLimits(ctx context.Context) domain.RateLimits {
	return domain.RateLimits{
		Successful: 100,
		Errors:     0,
		Total:      100,
		Maximum:    100,
		Remaining:  100,
	}
}

func (i *DemoIntegration) RenderTemplate(ctx context.Context, template string, variables map[string]any) string {
	return TEMPLATE_RESULT
}

func (i *DemoIntegration) Trusted() bool {
	return true
}

func (i *DemoIntegration) AppLocked() bool {
	return false
}

// ensure interface compliance
var _ port.Integration = (*DemoIntegration)(nil)
