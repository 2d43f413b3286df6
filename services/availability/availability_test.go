package availability

import (
	"context"
	"sync"
	"testing"

	availabilityRepo "servana/database/repository/availability"
	"servana/models"
	"servana/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAvailabilityRepo is an in-memory AvailabilityRepository with the same
// atomicity guarantees as the Mongo implementation: day creation and slot
// mutations are serialized under one lock.
type fakeAvailabilityRepo struct {
	mu   sync.Mutex
	days map[string]*models.AvailabilityDay
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{days: make(map[string]*models.AvailabilityDay)}
}

func dayKey(providerID, date string) string { return providerID + "|" + date }

func (f *fakeAvailabilityRepo) GetDay(_ context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day, ok := f.days[dayKey(providerID, date)]
	if !ok {
		return nil, nil
	}
	copied := *day
	copied.Slots = append([]models.Slot(nil), day.Slots...)
	return &copied, nil
}

func (f *fakeAvailabilityRepo) CreateDay(_ context.Context, day *models.AvailabilityDay) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dayKey(day.ProviderID, day.Date)
	if _, exists := f.days[key]; exists {
		return false, nil
	}
	copied := *day
	copied.Slots = append([]models.Slot(nil), day.Slots...)
	f.days[key] = &copied
	return true, nil
}

func (f *fakeAvailabilityRepo) ReplaceDay(_ context.Context, providerID, date string, slots []models.Slot, isAvailable bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	day, ok := f.days[dayKey(providerID, date)]
	if !ok {
		return availabilityRepo.ErrSlotNotFound
	}
	day.Slots = append([]models.Slot(nil), slots...)
	day.IsAvailable = isAvailable
	return nil
}

func (f *fakeAvailabilityRepo) ReserveSlot(_ context.Context, providerID, date, startTime, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	day, ok := f.days[dayKey(providerID, date)]
	if !ok {
		return availabilityRepo.ErrSlotNotFound
	}
	for i := range day.Slots {
		if day.Slots[i].StartTime != startTime {
			continue
		}
		if day.Slots[i].IsBooked {
			return availabilityRepo.ErrSlotTaken
		}
		day.Slots[i].IsBooked = true
		day.Slots[i].BookingID = bookingID
		return nil
	}
	return availabilityRepo.ErrSlotNotFound
}

func (f *fakeAvailabilityRepo) ReleaseSlot(_ context.Context, providerID, date, startTime, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	day, ok := f.days[dayKey(providerID, date)]
	if !ok {
		return availabilityRepo.ErrSlotMismatch
	}
	for i := range day.Slots {
		if day.Slots[i].StartTime != startTime {
			continue
		}
		if !day.Slots[i].IsBooked || day.Slots[i].BookingID != bookingID {
			return availabilityRepo.ErrSlotMismatch
		}
		day.Slots[i].IsBooked = false
		day.Slots[i].BookingID = ""
		return nil
	}
	return availabilityRepo.ErrSlotMismatch
}

func (f *fakeAvailabilityRepo) BookedSlots(_ context.Context) ([]models.BookedSlotRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var refs []models.BookedSlotRef
	for _, day := range f.days {
		for _, slot := range day.Slots {
			if slot.IsBooked {
				refs = append(refs, models.BookedSlotRef{
					ProviderID: day.ProviderID,
					Date:       day.Date,
					StartTime:  slot.StartTime,
					BookingID:  slot.BookingID,
				})
			}
		}
	}
	return refs, nil
}

func newTestLedger() (*DefaultLedgerService, *fakeAvailabilityRepo) {
	repo := newFakeAvailabilityRepo()
	return NewDefaultLedgerService(repo, DefaultGrid, zap.NewNop()), repo
}

func TestBuildGridDefaultWindow(t *testing.T) {
	slots := BuildGrid(DefaultGrid)

	require.Len(t, slots, 12)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "09:00", slots[0].EndTime)
	assert.Equal(t, "19:00", slots[11].StartTime)
	assert.Equal(t, "20:00", slots[11].EndTime)
	for _, s := range slots {
		assert.False(t, s.IsBooked)
		assert.Empty(t, s.BookingID)
	}
}

func TestBuildGridUniqueStartTimes(t *testing.T) {
	slots := BuildGrid(GridConfig{OpenHour: 6, CloseHour: 22, SlotMinutes: 30})
	seen := make(map[string]bool)
	for _, s := range slots {
		assert.False(t, seen[s.StartTime], s.StartTime)
		seen[s.StartTime] = true
	}
}

func TestGetOrCreateDayLazyCreation(t *testing.T) {
	svc, _ := newTestLedger()

	day, err := svc.GetOrCreateDay(context.Background(), "prov-1", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "prov-1", day.ProviderID)
	assert.Equal(t, "2024-06-10", day.Date)
	assert.True(t, day.IsAvailable)
	assert.Len(t, day.Slots, 12)
}

func TestGetOrCreateDayIdempotent(t *testing.T) {
	svc, _ := newTestLedger()
	ctx := context.Background()

	first, err := svc.GetOrCreateDay(ctx, "prov-1", "2024-06-10")
	require.NoError(t, err)
	second, err := svc.GetOrCreateDay(ctx, "prov-1", "2024-06-10")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Slots, second.Slots)
}

func TestGetOrCreateDayRejectsBadDate(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.GetOrCreateDay(context.Background(), "prov-1", "10/06/2024")
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))
}

func TestGetRangeAscending(t *testing.T) {
	svc, _ := newTestLedger()

	days, err := svc.GetRange(context.Background(), "prov-1", "2024-06-10", "2024-06-13")
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2024-06-10", days[0].Date)
	assert.Equal(t, "2024-06-13", days[3].Date)
}

func TestSetDayOwnerOnly(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.SetDay(context.Background(), "someone-else", "prov-1", "2024-06-10", nil, false)
	assert.Equal(t, utils.KindForbidden, utils.ErrorKindOf(err))
}

func TestSetDayRejectsDuplicateStartTimes(t *testing.T) {
	svc, _ := newTestLedger()

	slots := []models.Slot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "09:00", EndTime: "11:00"},
	}
	_, err := svc.SetDay(context.Background(), "prov-1", "prov-1", "2024-06-10", slots, true)
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))
}

func TestSetDayReplacesSlots(t *testing.T) {
	svc, _ := newTestLedger()

	slots := []models.Slot{
		{StartTime: "10:00", EndTime: "12:00"},
		{StartTime: "14:00", EndTime: "16:00"},
	}
	day, err := svc.SetDay(context.Background(), "prov-1", "prov-1", "2024-06-10", slots, true)
	require.NoError(t, err)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, "10:00", day.Slots[0].StartTime)
}

func TestReserveSlotHappyPath(t *testing.T) {
	svc, repo := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-1"))

	day, _ := repo.GetDay(ctx, "prov-1", "2024-06-10")
	for _, s := range day.Slots {
		if s.StartTime == "10:00" {
			assert.True(t, s.IsBooked)
			assert.Equal(t, "bk-1", s.BookingID)
		} else {
			assert.False(t, s.IsBooked)
		}
	}
}

func TestReserveSlotUnknownStartTime(t *testing.T) {
	svc, _ := newTestLedger()

	err := svc.ReserveSlot(context.Background(), "prov-1", "2024-06-10", "10:30", "bk-1")
	assert.Equal(t, utils.KindNotFound, utils.ErrorKindOf(err))
}

func TestReserveSlotAlreadyBooked(t *testing.T) {
	svc, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-1"))
	err := svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-2")
	assert.Equal(t, utils.KindConflict, utils.ErrorKindOf(err))
}

func TestReserveSlotConcurrentOneWinner(t *testing.T) {
	svc, _ := newTestLedger()
	ctx := context.Background()

	// Materialize the day first so both goroutines race on the reservation
	// itself.
	_, err := svc.GetOrCreateDay(ctx, "prov-1", "2024-06-10")
	require.NoError(t, err)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-"+string(rune('a'+n)))
		}(i)
	}
	wg.Wait()
	close(errs)

	wins, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case utils.ErrorKindOf(err) == utils.KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
}

func TestReleaseSlotRequiresMatchingBooking(t *testing.T) {
	svc, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-1"))

	err := svc.ReleaseSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-2")
	assert.Equal(t, utils.KindConflict, utils.ErrorKindOf(err))

	require.NoError(t, svc.ReleaseSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-1"))

	// Released slot is bookable again.
	require.NoError(t, svc.ReserveSlot(ctx, "prov-1", "2024-06-10", "10:00", "bk-3"))
}
