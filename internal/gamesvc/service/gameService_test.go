package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
	"github.com/kurogitsune/gamesofni/internal/vcg"
)

const testNow = int64(1700000000)

type fakeGameStore struct {
	games map[string]vcg.GameRecord // keyed team+"/"+name
	puts  []vcg.GameRecord
	bids  map[string]vcg.BidRecord // keyed team+"/"+name+"/"+user
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{
		games: map[string]vcg.GameRecord{},
		bids:  map[string]vcg.BidRecord{},
	}
}

func (f *fakeGameStore) Get(_ context.Context, team, name string) (*vcg.GameRecord, error) {
	rec, ok := f.games[team+"/"+name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeGameStore) Put(_ context.Context, rec vcg.GameRecord) error {
	f.games[rec.TeamID+"/"+rec.Name] = rec
	f.puts = append(f.puts, rec)
	return nil
}

func (f *fakeGameStore) UpsertBid(_ context.Context, team, name, user string, bid vcg.BidRecord) error {
	f.bids[team+"/"+name+"/"+user] = bid
	return nil
}

func (f *fakeGameStore) ListActive(_ context.Context, team string, now int64) ([]vcg.GameRecord, error) {
	var records []vcg.GameRecord
	for _, rec := range f.games {
		if rec.TeamID == team && rec.EndDate > now {
			records = append(records, rec)
		}
	}
	return records, nil
}

type fakeSettingsStore struct {
	settings map[string]*models.TeamSettings
	offsets  map[string]int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{
		settings: map[string]*models.TeamSettings{},
		offsets:  map[string]int{},
	}
}

func (f *fakeSettingsStore) Get(_ context.Context, team string) (*models.TeamSettings, error) {
	return f.settings[team], nil
}

func (f *fakeSettingsStore) UpsertOffset(_ context.Context, team, domain string, offset int) error {
	f.offsets[team] = offset
	f.settings[team] = &models.TeamSettings{TeamID: team, UTCOffset: &offset, TeamDomain: domain}
	return nil
}

func (f *fakeSettingsStore) Seed(_ context.Context, team string, joined int64) error {
	if _, ok := f.settings[team]; !ok {
		f.settings[team] = &models.TeamSettings{TeamID: team, Joined: joined}
	}
	return nil
}

func registeredTeam(settings *fakeSettingsStore, team string, offset int) {
	settings.settings[team] = &models.TeamSettings{TeamID: team, UTCOffset: &offset}
}

func activeGame(games *fakeGameStore, team, name string, options []string) {
	rec := vcg.GameRecord{
		TeamID:    team,
		Name:      name,
		Creator:   "alice",
		StartDate: testNow - 100,
		EndDate:   testNow + 3600,
		Bids:      map[string]vcg.BidRecord{},
		Options:   options,
	}
	games.games[team+"/"+name] = rec
}

func TestSetTimezone(t *testing.T) {
	settings := newFakeSettingsStore()
	svc := NewGameService(newFakeGameStore(), settings, vcg.RenderConfig{})

	reply, err := svc.SetTimezone(context.Background(), "T1", "myteam", "utc+3")
	require.NoError(t, err)
	assert.Contains(t, reply, "You successfully set timezone as utc 3")
	assert.Equal(t, 3, settings.offsets["T1"])
}

func TestSetTimezoneBadFormat(t *testing.T) {
	svc := NewGameService(newFakeGameStore(), newFakeSettingsStore(), vcg.RenderConfig{})

	_, err := svc.SetTimezone(context.Background(), "T1", "myteam", "gmt+3")
	var ferr *vcg.FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestCreateGame(t *testing.T) {
	games := newFakeGameStore()
	settings := newFakeSettingsStore()
	registeredTeam(settings, "T1", 0)
	svc := NewGameService(games, settings, vcg.RenderConfig{})

	reply, err := svc.CreateGame(context.Background(), "T1", "alice", "dinner 31-12-29 18:30 sushi pizza", testNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "*alice* created new game!")
	assert.Contains(t, reply, "type /bid to participate")

	require.Len(t, games.puts, 1)
	rec := games.puts[0]
	assert.Equal(t, "T1", rec.TeamID)
	assert.Equal(t, "dinner", rec.Name)
	assert.Equal(t, []string{"sushi", "pizza"}, rec.Options)
	assert.Empty(t, rec.Bids)
}

func TestCreateGameUnregisteredTeam(t *testing.T) {
	svc := NewGameService(newFakeGameStore(), newFakeSettingsStore(), vcg.RenderConfig{})

	_, err := svc.CreateGame(context.Background(), "T1", "alice", "dinner 31-12-29 18:30", testNow)
	var verr *vcg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "authorise this application again")
}

func TestCreateGameMissingTimezone(t *testing.T) {
	settings := newFakeSettingsStore()
	settings.settings["T1"] = &models.TeamSettings{TeamID: "T1"}
	svc := NewGameService(newFakeGameStore(), settings, vcg.RenderConfig{})

	_, err := svc.CreateGame(context.Background(), "T1", "alice", "dinner 31-12-29 18:30", testNow)
	var verr *vcg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "/set_timezone")
}

func TestCreateGameDuplicateName(t *testing.T) {
	games := newFakeGameStore()
	settings := newFakeSettingsStore()
	registeredTeam(settings, "T1", 0)
	activeGame(games, "T1", "dinner", nil)
	svc := NewGameService(games, settings, vcg.RenderConfig{})

	_, err := svc.CreateGame(context.Background(), "T1", "alice", "dinner 31-12-29 18:30", testNow)
	var verr *vcg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "already active")
}

func TestPlaceBid(t *testing.T) {
	games := newFakeGameStore()
	activeGame(games, "T1", "dinner", nil)
	svc := NewGameService(games, newFakeSettingsStore(), vcg.RenderConfig{})

	reply, err := svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Ok, you bid *42* in game *dinner*", reply)
	assert.Equal(t, vcg.BidRecord{Amount: 42}, games.bids["T1/dinner/bob"])
}

func TestPlaceBidUnknownGame(t *testing.T) {
	svc := NewGameService(newFakeGameStore(), newFakeSettingsStore(), vcg.RenderConfig{})

	_, err := svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42", testNow)
	var verr *vcg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "There is no game with the name you specified", verr.Reason)
}

func TestPlaceBidEndedGame(t *testing.T) {
	games := newFakeGameStore()
	activeGame(games, "T1", "dinner", nil)
	rec := games.games["T1/dinner"]
	rec.EndDate = testNow - 1
	games.games["T1/dinner"] = rec
	svc := NewGameService(games, newFakeSettingsStore(), vcg.RenderConfig{})

	_, err := svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42", testNow)
	var verr *vcg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "This game has ended")
}

func TestPlaceBidOptionRules(t *testing.T) {
	games := newFakeGameStore()
	activeGame(games, "T1", "dinner", []string{"sushi", "pizza"})
	activeGame(games, "T1", "plain", nil)
	svc := NewGameService(games, newFakeSettingsStore(), vcg.RenderConfig{})

	var verr *vcg.ValidationError

	// option game needs an option
	_, err := svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42", testNow)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "We did not receive which option")

	// the option must exist
	_, err = svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42 ramen", testNow)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "There is no such option")

	// a plain game takes no option
	_, err = svc.PlaceBid(context.Background(), "T1", "bob", "plain 42 sushi", testNow)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "There is no such option")

	// happy path
	reply, err := svc.PlaceBid(context.Background(), "T1", "bob", "dinner 42 sushi", testNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "for option *sushi*")
}

func TestActiveGamesInfo(t *testing.T) {
	games := newFakeGameStore()
	svc := NewGameService(games, newFakeSettingsStore(), vcg.RenderConfig{})

	reply, err := svc.ActiveGamesInfo(context.Background(), "T1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "There are no active games at this moment", reply)

	activeGame(games, "T1", "dinner", nil)
	reply, err = svc.ActiveGamesInfo(context.Background(), "T1", testNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "Games in progress are:")
	assert.Contains(t, reply, "Name of the game: *dinner*")
}
