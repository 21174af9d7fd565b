package port

import (
	"context"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
)

type Integration interface {
	Entities(ctx context.Context) []domain.Entity
	Entity(ctx context.Context, entityId string) (domain.Entity, bool)
	Zones(ctx context.Context) []domain.Entity
	Config(ctx context.Context) domain.BackendConfig
	Version(ctx context.Context) string
	VersionAtLeast(year, month, release int) bool
	Services(ctx context.Context) []domain.Service
	CallService(ctx context.Context, domain string, service string, data map[string]any) []domain.Entity
	Registration(ctx context.Context) domain.DeviceRegistration
	RateLimits(ctx context.Context) domain.RateLimits
	RenderTemplate(ctx context.Context, template string, variables map[string]any) string
	Trusted() bool
	AppLocked() bool
}
