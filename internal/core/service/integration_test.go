package service

import (
	"context"
	"testing"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestIntegration(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	d, s, _ := newTestDispatcher()
	i := NewDemoIntegration(s, d, "")

	assert.Len(i.Entities(ctx), 11)

	zones := i.Zones(ctx)
	assert.Len(zones, 1)
	assert.Equal(domain.HOME_ZONE_ID, zones[0].EntityId)
	assert.Equal(domain.ZONE_STATE, zones[0].State)
	assert.Equal(100, zones[0].Attributes["radius"])
	_, stored := s.Get(domain.HOME_ZONE_ID)
	assert.False(stored)

	cfg := i.Config(ctx)
	assert.Equal("Demo Home", cfg.LocationName)
	assert.Equal("UTC", cfg.TimeZone)
	assert.Equal("°C", cfg.UnitSystem["temperature"])
	assert.Equal("2025.3.0", cfg.Version)

	assert.True(i.VersionAtLeast(2099, 1, 0))
	assert.Empty(i.Services(ctx))
	assert.Equal(TEMPLATE_RESULT, i.RenderTemplate(ctx, "{{ states('sun.sun') }}", nil))
	assert.Equal("demo_token", i.Registration(ctx).PushToken)
	assert.Equal(100, i.RateLimits(ctx).Remaining)
	assert.True(i.Trusted())
	assert.False(i.AppLocked())
}

func TestIntegrationCallService(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	d, s, _ := newTestDispatcher()
	i := NewDemoIntegration(s, d, "Cabin")

	changed := i.CallService(ctx, "light", "turn_on", target("light.kitchen"))
	assert.Len(changed, 1)
	assert.Equal(domain.STATE_ON, changed[0].State)

	assert.Empty(i.CallService(ctx, "light", "turn_on", map[string]any{}))
	assert.Empty(i.CallService(ctx, "sensor", "set_value", target("sensor.humidity")))
	assert.Equal("Cabin", i.Config(ctx).LocationName)
}
