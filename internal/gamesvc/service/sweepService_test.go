package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurogitsune/gamesofni/internal/comm"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

type fakeSweepStore struct {
	expired []vcg.GameRecord
	deleted []models.GameKey
}

func (f *fakeSweepStore) QueryExpired(_ context.Context, now int64) ([]vcg.GameRecord, error) {
	return f.expired, nil
}

func (f *fakeSweepStore) BatchDelete(_ context.Context, keys []models.GameKey) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

type fakeArchiveStore struct {
	archived []vcg.CompletedGameRecord
}

func (f *fakeArchiveStore) BatchPut(_ context.Context, records []vcg.CompletedGameRecord) error {
	f.archived = append(f.archived, records...)
	return nil
}

type fakeDirectory struct {
	urls map[string]string
}

func (f *fakeDirectory) WebhookURLs(_ context.Context, teams []string) (map[string]string, error) {
	return f.urls, nil
}

type fakeNotifier struct {
	posts map[string][]string // url -> texts
}

func (f *fakeNotifier) Post(url, text string) error {
	if f.posts == nil {
		f.posts = map[string][]string{}
	}
	f.posts[url] = append(f.posts[url], text)
	return nil
}

type fakePublisher struct {
	notices []comm.SettlementNotice
}

func (f *fakePublisher) PublishSettlement(notice comm.SettlementNotice) error {
	f.notices = append(f.notices, notice)
	return nil
}

func expiredRecord(team, name string, bids map[string]vcg.BidRecord) vcg.GameRecord {
	if bids == nil {
		bids = map[string]vcg.BidRecord{}
	}
	return vcg.GameRecord{
		TeamID:    team,
		Name:      name,
		Creator:   "alice",
		StartDate: testNow - 7200,
		EndDate:   testNow - 60,
		Bids:      bids,
	}
}

func TestSweepNothingExpired(t *testing.T) {
	games := &fakeSweepStore{}
	archive := &fakeArchiveStore{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewSweepService(games, archive, &fakeDirectory{}, notifier, publisher, vcg.RenderConfig{})

	settled, err := svc.Sweep(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, settled)
	assert.Empty(t, archive.archived)
	assert.Empty(t, notifier.posts)
	assert.Empty(t, publisher.notices)
}

func TestSweepSettlesArchivesNotifiesDeletes(t *testing.T) {
	games := &fakeSweepStore{expired: []vcg.GameRecord{
		expiredRecord("T1", "dinner", map[string]vcg.BidRecord{
			"A": {Amount: 150},
			"B": {Amount: 100},
		}),
		expiredRecord("T1", "movie", nil),
		expiredRecord("T2", "lunch", map[string]vcg.BidRecord{
			"C": {Amount: 10},
		}),
	}}
	archive := &fakeArchiveStore{}
	directory := &fakeDirectory{urls: map[string]string{
		"T1": "https://hooks.example.com/t1",
		"T2": "https://hooks.example.com/t2",
	}}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewSweepService(games, archive, directory, notifier, publisher, vcg.RenderConfig{})

	settled, err := svc.Sweep(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, settled)

	// every settled game archived, with outcome keys where present
	require.Len(t, archive.archived, 3)
	assert.Equal(t, "A", archive.archived[0].Winner)
	assert.Equal(t, int64(100), archive.archived[0].Amount)

	// exactly one webhook per team, both games of T1 in one message
	require.Len(t, notifier.posts, 2)
	t1Posts := notifier.posts["https://hooks.example.com/t1"]
	require.Len(t, t1Posts, 1)
	assert.Contains(t, t1Posts[0], "Game *dinner* just finished")
	assert.Contains(t, t1Posts[0], "Game *movie* just finished")

	// one bus notice per team
	require.Len(t, publisher.notices, 2)
	teams := []string{publisher.notices[0].Team, publisher.notices[1].Team}
	assert.ElementsMatch(t, []string{"T1", "T2"}, teams)

	// settled games removed from active storage
	assert.ElementsMatch(t, []models.GameKey{
		{Team: "T1", Name: "dinner"},
		{Team: "T1", Name: "movie"},
		{Team: "T2", Name: "lunch"},
	}, games.deleted)
}

func TestSweepMissingWebhookStillSettles(t *testing.T) {
	games := &fakeSweepStore{expired: []vcg.GameRecord{
		expiredRecord("T9", "dinner", nil),
	}}
	archive := &fakeArchiveStore{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewSweepService(games, archive, &fakeDirectory{urls: map[string]string{}},
		notifier, publisher, vcg.RenderConfig{})

	settled, err := svc.Sweep(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, settled)
	assert.Empty(t, notifier.posts)
	assert.Len(t, games.deleted, 1)
}
