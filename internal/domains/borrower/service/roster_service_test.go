package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classlib-backend/internal/domains/borrower/model"
)

func sampleRoster() []model.RosterEntry {
	return []model.RosterEntry{
		{Name: "Ana", Classification: strPtr("C1"), Items: []model.RosterItem{}, History: []model.RosterHistory{}},
	}
}

func TestRosterGet_CacheHit(t *testing.T) {
	repo := new(mockRepo)
	c := new(mockCache)
	c.On("Get", mock.Anything, RosterCacheKey, mock.Anything).
		Return(true, nil, func(dest interface{}) {
			*dest.(*[]model.RosterEntry) = sampleRoster()
		})

	roster, err := NewRosterService(repo, c, nil, time.Minute).Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sampleRoster(), roster)
	repo.AssertNotCalled(t, "ListRoster", mock.Anything)
}

func TestRosterGet_MissBuildsAndCaches(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListRoster", mock.Anything).Return(sampleRoster(), nil)
	c := new(mockCache)
	c.On("Get", mock.Anything, RosterCacheKey, mock.Anything).Return(false, nil, nil)
	c.On("Set", mock.Anything, RosterCacheKey, sampleRoster(), time.Minute).Return(nil)

	roster, err := NewRosterService(repo, c, nil, time.Minute).Get(context.Background())

	require.NoError(t, err)
	assert.Len(t, roster, 1)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestRosterGet_CacheErrorFallsBackToDatabase(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListRoster", mock.Anything).Return(sampleRoster(), nil)
	c := new(mockCache)
	c.On("Get", mock.Anything, RosterCacheKey, mock.Anything).Return(false, errors.New("redis down"), nil)
	c.On("Set", mock.Anything, RosterCacheKey, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	roster, err := NewRosterService(repo, c, nil, time.Minute).Get(context.Background())

	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRosterGet_WithoutCache(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListRoster", mock.Anything).Return(sampleRoster(), nil)

	roster, err := NewRosterService(repo, nil, nil, 0).Get(context.Background())

	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRosterRefresh_DatabaseError(t *testing.T) {
	repo := new(mockRepo)
	dbErr := errors.New("db down")
	repo.On("ListRoster", mock.Anything).Return(nil, dbErr)

	_, err := NewRosterService(repo, nil, nil, 0).Refresh(context.Background())

	assert.ErrorIs(t, err, dbErr)
}

func TestRosterInvalidate_DeletesAndEnqueues(t *testing.T) {
	c := new(mockCache)
	c.On("Delete", mock.Anything, []string{RosterCacheKey}).Return(nil)
	enq := new(mockEnqueuer)
	enq.On("EnqueueRosterRefresh", mock.Anything, "checkout").Return(nil)

	NewRosterService(new(mockRepo), c, enq, time.Minute).Invalidate(context.Background(), "checkout")

	c.AssertExpectations(t)
	enq.AssertExpectations(t)
}

func TestRosterInvalidate_SwallowsFailures(t *testing.T) {
	c := new(mockCache)
	c.On("Delete", mock.Anything, []string{RosterCacheKey}).Return(errors.New("redis down"))
	enq := new(mockEnqueuer)
	enq.On("EnqueueRosterRefresh", mock.Anything, "return").Return(errors.New("redis down"))

	assert.NotPanics(t, func() {
		NewRosterService(new(mockRepo), c, enq, time.Minute).Invalidate(context.Background(), "return")
	})
}
