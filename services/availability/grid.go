package availability

import (
	"fmt"

	"servana/models"
)

// GridConfig describes the default daily booking window used to pre-populate
// a new AvailabilityDay.
type GridConfig struct {
	OpenHour    int // first slot starts at this hour
	CloseHour   int // last slot ends at this hour
	SlotMinutes int // fixed slot width
}

// DefaultGrid is the standard 08:00-20:00 hourly window (12 slots).
var DefaultGrid = GridConfig{OpenHour: 8, CloseHour: 20, SlotMinutes: 60}

// BuildGrid generates the unbooked slot sequence for one day. Deterministic:
// the same config always yields the same grid.
func BuildGrid(cfg GridConfig) []models.Slot {
	if cfg.SlotMinutes <= 0 {
		cfg = DefaultGrid
	}
	open := cfg.OpenHour * 60
	close := cfg.CloseHour * 60

	var slots []models.Slot
	for start := open; start+cfg.SlotMinutes <= close; start += cfg.SlotMinutes {
		slots = append(slots, models.Slot{
			StartTime: minutesToClock(start),
			EndTime:   minutesToClock(start + cfg.SlotMinutes),
		})
	}
	return slots
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// validateSlots enforces the per-day invariant that no two slots share a
// start time, and that every slot has a well-formed interval.
func validateSlots(slots []models.Slot) error {
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if s.StartTime == "" || s.EndTime == "" {
			return fmt.Errorf("slot is missing start or end time")
		}
		if _, dup := seen[s.StartTime]; dup {
			return fmt.Errorf("duplicate slot start time %s", s.StartTime)
		}
		seen[s.StartTime] = struct{}{}
	}
	return nil
}
