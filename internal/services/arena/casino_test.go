package arena

import (
	"time"

	"go.uber.org/mock/gomock"
)

func (s *ArenaServiceTestSuite) TestCasinoValidatesBet() {
	s.seedPlayer("gambler", "Gambler", 10)

	_, err := s.svc.PlayCasino(s.ctx, &PlayCasinoInput{
		RoomID:   s.testRoomID,
		PlayerID: "gambler",
		Bet:      0,
	})
	s.Require().ErrorIs(err, ErrInvalidBet)

	_, err = s.svc.PlayCasino(s.ctx, &PlayCasinoInput{
		RoomID:   s.testRoomID,
		PlayerID: "gambler",
		Bet:      11,
	})
	s.Require().ErrorIs(err, ErrInsufficientBet)
}

func (s *ArenaServiceTestSuite) TestCasinoWinDoublesTheBet() {
	s.seedPlayer("gambler", "Gambler", 10)

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Nil()).
		Return("casino-msg", nil)

	output, err := s.svc.PlayCasino(s.ctx, &PlayCasinoInput{
		RoomID:   s.testRoomID,
		PlayerID: "gambler",
		Bet:      4,
	})
	s.Require().NoError(err)
	s.Equal("casino-msg", output.MessageID)

	// Nothing moves until the wheel stops
	s.Equal(10, s.getPlayer("gambler").Size)

	s.mockRoller.EXPECT().Coin().Return(true)
	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "casino-msg", gomock.Any(), gomock.Any()).
		Return(nil)

	s.sched.runAll()

	s.Equal(14, s.getPlayer("gambler").Size)
}

func (s *ArenaServiceTestSuite) TestCasinoLossTakesTheBet() {
	s.seedPlayer("gambler", "Gambler", 10)

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Nil()).
		Return("casino-msg", nil)

	_, err := s.svc.PlayCasino(s.ctx, &PlayCasinoInput{
		RoomID:   s.testRoomID,
		PlayerID: "gambler",
		Bet:      4,
	})
	s.Require().NoError(err)

	s.mockRoller.EXPECT().Coin().Return(false)
	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "casino-msg", gomock.Any(), gomock.Any()).
		Return(nil)

	s.sched.runAll()

	s.Equal(6, s.getPlayer("gambler").Size)
}

func (s *ArenaServiceTestSuite) TestCasinoRefusesCondemnedPlayers() {
	end := s.testNow.Add(time.Hour)
	s.seedCondemned("convict", "Convict", 10, "someone", &end)

	s.mockRoller.EXPECT().Roll(len(refusalPhrases)).Return(3)

	_, err := s.svc.PlayCasino(s.ctx, &PlayCasinoInput{
		RoomID:   s.testRoomID,
		PlayerID: "convict",
		Bet:      4,
	})
	s.Require().Error(err)

	refusal, ok := err.(*RefusalError)
	s.Require().True(ok)
	s.Equal(refusalPhrases[2], refusal.Phrase)
}
