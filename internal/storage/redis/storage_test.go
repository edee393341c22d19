package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newRoom(id string) *model.Room {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		GameID: model.GameID(id),
		Players: []model.Player{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		HostID:        "p1",
		Words:         []string{"가방"},
		IsStarted:     true,
		TurnStartedAt: &started,
		CreatedAt:     started,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.newRoom("abc123")

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)
	s.Equal(int64(1), room.Version)

	retrieved, err := s.storage.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(room.GameID, retrieved.GameID)
	s.Equal(room.Players, retrieved.Players)
	s.Equal(room.Words, retrieved.Words)
	s.Equal(room.HostID, retrieved.HostID)
	s.True(retrieved.IsStarted)
	s.Require().NotNil(retrieved.TurnStartedAt)
	s.True(room.TurnStartedAt.Equal(*retrieved.TurnStartedAt))
	s.Equal(int64(1), retrieved.Version)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestSaveRoomSetsTTL() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("abc123")))

	ttl := s.mini.TTL(roomKey("abc123"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestSaveRoomCreateConflictsWhenExists() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("abc123")))

	other := s.newRoom("abc123")
	err := s.storage.SaveRoom(s.ctx, other)
	s.ErrorIs(err, model.ErrVersionConflict)
	s.Equal(int64(0), other.Version)
}

func (s *StorageSuite) TestSaveRoomStaleVersionConflicts() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("abc123")))

	first, _ := s.storage.GetRoom(s.ctx, "abc123")
	second, _ := s.storage.GetRoom(s.ctx, "abc123")

	first.Words = append(first.Words, "방석")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, first))
	s.Equal(int64(2), first.Version)

	second.Words = append(second.Words, "방패")
	err := s.storage.SaveRoom(s.ctx, second)
	s.ErrorIs(err, model.ErrVersionConflict)
	s.Equal(int64(1), second.Version)

	stored, _ := s.storage.GetRoom(s.ctx, "abc123")
	s.Equal([]string{"가방", "방석"}, stored.Words)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := s.newRoom("abc123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	err := s.storage.DeleteRoom(s.ctx, "abc123", room.Version)
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrRoomNotFound)

	// Removing the last member drops the index set
	s.False(s.mini.Exists(roomsIndexKey()))
}

func (s *StorageSuite) TestDeleteRoomKeepsOtherIndexEntries() {
	kept := s.newRoom("keep01")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, kept))
	room := s.newRoom("abc123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "abc123", room.Version))

	members, err := s.mini.Members(roomsIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"keep01"}, members)
}

func (s *StorageSuite) TestDeleteRoomStaleVersionConflicts() {
	room := s.newRoom("abc123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	err := s.storage.DeleteRoom(s.ctx, "abc123", room.Version+1)
	s.ErrorIs(err, model.ErrVersionConflict)

	_, err = s.storage.GetRoom(s.ctx, "abc123")
	s.NoError(err)
}

func (s *StorageSuite) TestDeleteMissingRoomIsNoop() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "nonexistent", 1))
}

func (s *StorageSuite) TestListRooms() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("bbb")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("aaa")))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.GameID("aaa"), rooms[0].GameID)
	s.Equal(model.GameID("bbb"), rooms[1].GameID)
}

func (s *StorageSuite) TestListRoomsEmpty() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestListRoomsPrunesExpired() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("aaa")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("bbb")))

	s.mini.FastForward(2 * time.Hour)
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.newRoom("ccc")))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.GameID("ccc"), rooms[0].GameID)

	members, err := s.mini.Members(roomsIndexKey())
	s.NoError(err)
	s.Equal([]string{"ccc"}, members)
}

// Dictionary tests

func (s *StorageSuite) TestDictionaryNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetDictionaryWords() {
	words := []string{"가방", "방석", "석류"}
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, words))

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestSaveDictionaryWordsReplaces() {
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"가방"}))
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"나무"}))

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"나무"}, retrieved)
}
