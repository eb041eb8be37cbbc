package arena

import (
	"time"

	"go.uber.org/mock/gomock"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

// openTable opens a lobby for the host with the given bet.
func (s *ArenaServiceTestSuite) openTable(hostID string, bet int) {
	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Len(1)).
		Return("table-msg", nil)

	_, err := s.svc.OpenTable(s.ctx, &OpenTableInput{
		RoomID: s.testRoomID,
		HostID: hostID,
		Bet:    bet,
	})
	s.Require().NoError(err)
}

// forceStart advances past the lobby deadline and sweeps so the round
// deals with the given shuffle.
func (s *ArenaServiceTestSuite) forceStart(perm []int) {
	s.mockRoller.EXPECT().Perm(52).Return(perm)

	s.testNow = s.testNow.Add(DefaultLobbyDuration + time.Second)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Require().Equal(1, output.TablesStarted)
}

func (s *ArenaServiceTestSuite) TestOpenTableValidatesBet() {
	s.seedPlayer("host", "Host", 20)

	_, err := s.svc.OpenTable(s.ctx, &OpenTableInput{
		RoomID: s.testRoomID,
		HostID: "host",
		Bet:    0,
	})
	s.Require().ErrorIs(err, ErrInvalidBet)

	_, err = s.svc.OpenTable(s.ctx, &OpenTableInput{
		RoomID: s.testRoomID,
		HostID: "host",
		Bet:    21,
	})
	s.Require().ErrorIs(err, ErrInsufficientBet)
}

func (s *ArenaServiceTestSuite) TestOpenTableSeatsHost() {
	s.seedPlayer("host", "Host", 20)

	s.openTable("host", 5)

	room := s.getRoom()
	s.Require().NotNil(room.Table)
	s.Equal(models.TablePhaseLobby, room.Table.Phase)
	s.Equal("table-msg", room.Table.MessageID)
	s.Require().Len(room.Table.Seats, 1)
	s.Equal("host", room.Table.Seats[0].PlayerID)
	s.Equal(5, room.Table.Seats[0].Bet)
}

func (s *ArenaServiceTestSuite) TestOpenTableRejectsSecondTable() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("other", "Other", 20)

	s.openTable("host", 5)

	_, err := s.svc.OpenTable(s.ctx, &OpenTableInput{
		RoomID: s.testRoomID,
		HostID: "other",
		Bet:    5,
	})
	s.Require().ErrorIs(err, ErrTableInProgress)
}

func (s *ArenaServiceTestSuite) TestJoinTableReservesSingleSlot() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 20)
	s.seedPlayer("latecomer", "Latecomer", 20)

	s.openTable("host", 5)

	output, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)
	s.NotEmpty(output.Prompt)

	_, err = s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "latecomer",
	})
	s.Require().ErrorIs(err, ErrJoinInProgress)

	_, err = s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().ErrorIs(err, ErrAlreadySeated)
}

func (s *ArenaServiceTestSuite) TestPlaceBetSeatsJoiner() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 20)

	s.openTable("host", 5)

	_, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
		Text:     " 7 ",
	})
	s.Require().NoError(err)
	s.True(output.Seated)
	s.Equal(7, output.Bet)

	game := s.getRoom().Table
	s.Require().Len(game.Seats, 2)
	s.Equal("joiner", game.Seats[1].PlayerID)
	s.Equal(7, game.Seats[1].Bet)
	s.Empty(game.PendingJoinerID)
}

func (s *ArenaServiceTestSuite) TestPlaceBetInvalidClearsReservation() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 20)

	s.openTable("host", 5)

	_, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)

	_, err = s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
		Text:     "all in",
	})
	s.Require().ErrorIs(err, ErrInvalidBet)

	// The reservation is gone; the next message is plain chat again
	_, err = s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
		Text:     "5",
	})
	s.Require().ErrorIs(err, ErrNoPendingBet)
}

func (s *ArenaServiceTestSuite) TestPlaceBetCannotExceedSize() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 3)

	s.openTable("host", 5)

	_, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)

	_, err = s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
		Text:     "10",
	})
	s.Require().ErrorIs(err, ErrInsufficientBet)

	s.Empty(s.getRoom().Table.PendingJoinerID)
}

func (s *ArenaServiceTestSuite) TestPlaceBetIgnoresPlainChat() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("chatter", "Chatter", 20)

	// No table at all
	_, err := s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "chatter",
		Text:     "42",
	})
	s.Require().ErrorIs(err, ErrNoPendingBet)

	// Table open, but nobody asked this player for a bet
	s.openTable("host", 5)

	_, err = s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "chatter",
		Text:     "42",
	})
	s.Require().ErrorIs(err, ErrNoPendingBet)
}

func (s *ArenaServiceTestSuite) TestHitRequiresActiveRound() {
	s.seedPlayer("host", "Host", 20)

	_, err := s.svc.Hit(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().ErrorIs(err, ErrNoActiveTable)

	// During the lobby no turns exist yet
	s.openTable("host", 5)

	_, err = s.svc.Hit(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().ErrorIs(err, ErrNotYourTurn)
}

func (s *ArenaServiceTestSuite) TestHitBustLosesBet() {
	s.seedPlayer("host", "Host", 20)

	s.openTable("host", 5)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Deal: host 9♠ 9♥ (18), dealer 10♠ 8♠ (18); next draw is K♠
	s.forceStart(permStartingWith(8, 9, 21, 7, 12))

	game := s.getRoom().Table
	s.Require().Equal(models.TablePhasePlayerTurns, game.Phase)
	s.Equal(18, HandValue(game.Seats[0].Hand))

	output, err := s.svc.Hit(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().NoError(err)
	s.Require().NotNil(output.Drawn)
	s.Equal(models.RankKing, output.Drawn.Rank)
	s.Equal(28, output.HandValue)
	s.True(output.Busted)

	// The dealer stands on 18 and the bust costs the bet
	s.sched.runAll()

	s.Equal(15, s.getPlayer("host").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestStandWinsAgainstDrawingDealer() {
	s.seedPlayer("host", "Host", 20)

	s.openTable("host", 5)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Deal: host 9♠ 9♥ (18), dealer 10♠ 2♠ (12); the dealer draws 5♠
	// and stands on 17
	s.forceStart(permStartingWith(8, 9, 21, 1, 4))

	output, err := s.svc.Stand(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().NoError(err)
	s.Equal(18, output.HandValue)
	s.False(output.Busted)

	s.sched.runAll()

	s.Equal(25, s.getPlayer("host").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestTwoSeatTurnOrderAndSettlement() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 20)

	s.openTable("host", 5)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	_, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)
	_, err = s.svc.PlaceBet(s.ctx, &PlaceBetInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
		Text:     "8",
	})
	s.Require().NoError(err)

	// Deal: host 5♠ K♠ (15), joiner 9♠ 9♥ (18), dealer 10♠ 8♠ (18)
	s.forceStart(permStartingWith(4, 8, 9, 12, 21, 7))

	// The host acts first
	_, err = s.svc.Stand(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().ErrorIs(err, ErrNotYourTurn)

	_, err = s.svc.Stand(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().NoError(err)

	_, err = s.svc.Stand(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)

	s.sched.runAll()

	// Host 15 loses to the dealer's 18, joiner pushes
	s.Equal(15, s.getPlayer("host").Size)
	s.Equal(20, s.getPlayer("joiner").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestSweepForcesStalledTurn() {
	s.seedPlayer("host", "Host", 20)

	s.openTable("host", 5)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Deal: host 9♠ 9♥ (18), dealer 10♠ 8♠ (18); then the host walks
	// away without acting
	s.forceStart(permStartingWith(8, 9, 21, 7))

	s.testNow = s.testNow.Add(24 * time.Hour)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.TurnsForced)

	s.sched.runAll()

	// 18 against 18 is a push; the slot is free again
	s.Equal(20, s.getPlayer("host").Size)
	s.roomGone()

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Len(1)).
		Return("table-msg-2", nil)

	_, err = s.svc.OpenTable(s.ctx, &OpenTableInput{
		RoomID: s.testRoomID,
		HostID: "host",
		Bet:    5,
	})
	s.Require().NoError(err)
}

func (s *ArenaServiceTestSuite) TestSweepRearmsAbandonedDealer() {
	s.seedPlayer("host", "Host", 20)

	s.openTable("host", 5)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// Deal: host 9♠ 9♥ (18), dealer 10♠ 2♠ (12)
	s.forceStart(permStartingWith(8, 9, 21, 1, 4))

	_, err := s.svc.Stand(s.ctx, &TurnActionInput{
		RoomID:   s.testRoomID,
		PlayerID: "host",
	})
	s.Require().NoError(err)

	// The pending dealer callback dies with a restart
	s.sched.drop()

	s.testNow = s.testNow.Add(DefaultTurnTimeout + time.Second)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.DealersRearmed)

	s.sched.runAll()

	// The dealer draws 5♠ to 17 and the host's 18 wins
	s.Equal(25, s.getPlayer("host").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestSweepForfeitsStaleJoin() {
	s.seedPlayer("host", "Host", 20)
	s.seedPlayer("joiner", "Joiner", 20)

	s.openTable("host", 5)

	_, err := s.svc.JoinTable(s.ctx, &JoinTableInput{
		RoomID:   s.testRoomID,
		PlayerID: "joiner",
	})
	s.Require().NoError(err)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "table-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	// The joiner never typed a bet; the deadline passes and the round
	// deals without them
	s.forceStart(permStartingWith(8, 9, 21, 7))

	game := s.getRoom().Table
	s.Empty(game.PendingJoinerID)
	s.Require().Len(game.Seats, 1)
	s.Equal("host", game.Seats[0].PlayerID)
}
