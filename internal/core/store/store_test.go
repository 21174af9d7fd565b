package store

import (
	"sync"
	"testing"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestDemoSeed(t *testing.T) {
	assert := assert.New(t)

	s := NewDemo()
	list := s.List()
	assert.Len(list, 11)

	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.EntityId)
	}
	assert.IsIncreasing(ids)
	assert.NotContains(ids, domain.HOME_ZONE_ID)

	lock, ok := s.Get("lock.front_door")
	assert.True(ok)
	assert.Equal(domain.STATE_LOCKED, lock.State)
	assert.Equal("Front Door Lock", lock.FriendlyName())

	temp, ok := s.Get("sensor.temperature")
	assert.True(ok)
	assert.Equal("21.5", temp.State)
	assert.Equal("°C", temp.StringAttribute(domain.ATTR_UNIT_OF_MEASUREMENT))
}

func TestGetAbsent(t *testing.T) {
	s := NewDemo()
	_, ok := s.Get("light.garage")
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	assert := assert.New(t)

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	s := NewDemo(WithClock(func() time.Time { return now }))

	before, _ := s.Get("light.kitchen")
	now = start.Add(time.Second)

	assert.True(s.Update("light.kitchen", domain.STATE_ON))
	after, _ := s.Get("light.kitchen")

	assert.Equal(domain.STATE_ON, after.State)
	assert.Equal(before.Attributes, after.Attributes)
	assert.Equal(now, after.LastChanged)
	assert.Equal(now, after.LastUpdated)
	assert.True(after.LastChanged.After(before.LastChanged))
}

func TestUpdateAbsentIsNoop(t *testing.T) {
	assert := assert.New(t)

	s := NewDemo()
	before := s.List()
	assert.False(s.Update("light.garage", domain.STATE_ON))
	assert.Equal(before, s.List())
}

func TestUpdateSameStateRefreshesTimestamps(t *testing.T) {
	assert := assert.New(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewDemo(WithClock(fixedClock(now)))
	before, _ := s.Get("light.bedroom")

	assert.True(s.Update("light.bedroom", domain.STATE_ON))
	after, _ := s.Get("light.bedroom")
	assert.Equal(domain.STATE_ON, after.State)
	// clock did not move, timestamps still strictly increase
	assert.True(after.LastUpdated.After(before.LastUpdated))
	assert.Equal(after.LastChanged, after.LastUpdated)
}

func TestSnapshotIsolation(t *testing.T) {
	assert := assert.New(t)

	s := NewDemo()
	snap, _ := s.Get("climate.living_room")
	snap.Attributes[domain.ATTR_FRIENDLY_NAME] = "changed"
	snap.Attributes["hvac_modes"].([]string)[0] = "changed"

	again, _ := s.Get("climate.living_room")
	assert.Equal("Living Room Thermostat", again.FriendlyName())
	assert.Equal([]string{"off", "heat", "cool", "auto"}, again.Attributes["hvac_modes"])

	list := s.List()
	list[0].State = "changed"
	first, _ := s.Get(list[0].EntityId)
	assert.NotEqual("changed", first.State)
}

func TestSnapshotSurvivesUpdate(t *testing.T) {
	s := NewDemo()
	held, _ := s.Get("switch.porch_light")
	s.Update("switch.porch_light", domain.STATE_OFF)
	assert.Equal(t, domain.STATE_ON, held.State)
}

func TestModifySkip(t *testing.T) {
	assert := assert.New(t)

	s := NewDemo()
	before, _ := s.Get("light.kitchen")
	applied := s.Modify("light.kitchen", func(domain.Entity) (string, bool) {
		return "", false
	})
	assert.False(applied)
	after, _ := s.Get("light.kitchen")
	assert.Equal(before, after)
}

func TestConcurrentModify(t *testing.T) {
	require := require.New(t)

	s := NewDemo()
	flip := func(e domain.Entity) (string, bool) {
		if e.State == domain.STATE_ON {
			return domain.STATE_OFF, true
		}
		return domain.STATE_ON, true
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < 2*n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Modify("light.living_room", flip)
		}()
	}
	wg.Wait()

	e, ok := s.Get("light.living_room")
	require.True(ok)
	require.Equal(domain.STATE_OFF, e.State)
}
