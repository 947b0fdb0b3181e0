package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/viant/fetchly/driver"
	"github.com/viant/fetchly/fetch/cache"
	"github.com/viant/fetchly/types"
)

func TestCache_ReplayRoundTrip(t *testing.T) {
	testLocation := "/tmp/fetchly/cache/"
	_ = os.RemoveAll(testLocation)
	ctx := context.Background()
	service := cache.New(testLocation, time.Hour)

	columns := []driver.Column{
		{Name: "ID", Type: driver.TypeBigInt},
		{Name: "NAME", Type: driver.TypeVarChar, Size: 32},
		{Name: "SCORE", Type: driver.TypeDecimal, Size: 10, Scale: 2},
		{Name: "CREATED", Type: driver.TypeTimestamp},
		{Name: "ACTIVE", Type: driver.TypeBit},
		{Name: "PAYLOAD", Type: driver.TypeVarBinary, Size: 16},
		{Name: "REF", Type: driver.TypeGUID},
	}
	created := time.Date(2023, 4, 5, 10, 30, 0, 123000000, time.UTC)
	ref := uuid.MustParse("7d4eab9a-7a22-4eb0-a522-66999e5c42a0")
	score, err := types.NewDecimalFromString("12.50", 2)
	assert.Nil(t, err)

	SQL := "SELECT id, name, score, created, active, payload, ref FROM users WHERE id > ?"
	args := []interface{}{0}

	entry, err := service.Get(ctx, SQL, args)
	if !assert.Nil(t, err) {
		return
	}
	if !assert.NotNil(t, entry) {
		return
	}
	assert.False(t, entry.Has())

	//while the first entry is in flight a concurrent get bypasses the cache
	inFlight, err := service.Get(ctx, SQL, args)
	assert.Nil(t, err)
	assert.Nil(t, inFlight)

	entry.SetColumns(columns)
	assert.Nil(t, service.AddValues(ctx, entry, []interface{}{int64(1), "John", score, created, true, []byte{0x1, 0x2}, ref}))
	assert.Nil(t, service.AddValues(ctx, entry, []interface{}{int64(2), nil, nil, nil, nil, nil, nil}))
	assert.Nil(t, service.Close(ctx, entry))

	replay, err := service.Get(ctx, SQL, args)
	if !assert.Nil(t, err) {
		return
	}
	if !assert.True(t, replay.Has()) {
		return
	}
	assert.Equal(t, len(columns), len(replay.Columns()))

	first, err := replay.Next()
	assert.Nil(t, err)
	if !assert.Equal(t, len(columns), len(first)) {
		return
	}
	assert.Equal(t, int64(1), first[0])
	assert.Equal(t, "John", first[1])
	if actualScore, ok := first[2].(types.Decimal); assert.True(t, ok) {
		assert.Equal(t, "12.50", actualScore.String())
	}
	if actualCreated, ok := first[3].(time.Time); assert.True(t, ok) {
		assert.True(t, created.Equal(actualCreated))
	}
	assert.Equal(t, true, first[4])
	assert.Equal(t, []byte{0x1, 0x2}, first[5])
	assert.Equal(t, ref, first[6])

	second, err := replay.Next()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second[0])
	for i := 1; i < len(second); i++ {
		assert.Nil(t, second[i])
	}

	exhausted, err := replay.Next()
	assert.Nil(t, err)
	assert.Nil(t, exhausted)
	assert.Nil(t, service.Close(ctx, replay))
}

func TestCache_Expiry(t *testing.T) {
	testLocation := "/tmp/fetchly/cache-expiry/"
	_ = os.RemoveAll(testLocation)
	ctx := context.Background()
	service := cache.New(testLocation, -time.Minute)

	SQL := "SELECT id FROM stale"
	entry, err := service.Get(ctx, SQL, nil)
	if !assert.Nil(t, err) {
		return
	}
	entry.SetColumns([]driver.Column{{Name: "ID", Type: driver.TypeInteger}})
	assert.Nil(t, service.AddValues(ctx, entry, []interface{}{int64(1)}))
	assert.Nil(t, service.Close(ctx, entry))

	//written with a negative ttl the entry is already stale, so a fresh writable one comes back
	stale, err := service.Get(ctx, SQL, nil)
	assert.Nil(t, err)
	if assert.NotNil(t, stale) {
		assert.False(t, stale.Has())
		assert.Nil(t, service.Rollback(ctx, stale))
	}
}

func TestCache_Rollback(t *testing.T) {
	testLocation := "/tmp/fetchly/cache-rollback/"
	_ = os.RemoveAll(testLocation)
	ctx := context.Background()
	service := cache.New(testLocation, time.Hour)

	SQL := "SELECT id FROM discarded"
	entry, err := service.Get(ctx, SQL, nil)
	if !assert.Nil(t, err) {
		return
	}
	entry.SetColumns([]driver.Column{{Name: "ID", Type: driver.TypeInteger}})
	assert.Nil(t, service.AddValues(ctx, entry, []interface{}{int64(1)}))
	assert.Nil(t, service.Rollback(ctx, entry))

	again, err := service.Get(ctx, SQL, nil)
	assert.Nil(t, err)
	if assert.NotNil(t, again) {
		assert.False(t, again.Has())
		assert.Nil(t, service.Rollback(ctx, again))
	}
}
