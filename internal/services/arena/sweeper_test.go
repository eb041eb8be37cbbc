package arena

import (
	"time"

	"go.uber.org/mock/gomock"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

func (s *ArenaServiceTestSuite) TestSweepExpiresDuelChallenge() {
	s.seedPlayer("attacker", "Attacker", 10)
	s.seedPlayer("defender", "Defender", 10)

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Any()).
		Return("msg-1", nil)

	_, err := s.svc.StartDuel(s.ctx, &StartDuelInput{
		RoomID:     s.testRoomID,
		AttackerID: "attacker",
		DefenderID: "defender",
	})
	s.Require().NoError(err)

	s.testNow = s.testNow.Add(DefaultDuelTimeout + time.Second)

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "msg-1", gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.DuelsTimedOut)
	s.Equal(1, output.RoomsScanned)

	// No sizes moved and the slot is gone
	s.Equal(10, s.getPlayer("attacker").Size)
	s.Equal(10, s.getPlayer("defender").Size)
	s.roomGone()

	// A second pass finds nothing left to do
	output, err = s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(0, output.DuelsTimedOut)
	s.Equal(0, output.RoomsScanned)
}

func (s *ArenaServiceTestSuite) TestSweepLeavesLiveDuelAlone() {
	s.seedPlayer("attacker", "Attacker", 10)
	s.seedPlayer("defender", "Defender", 10)

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Any()).
		Return("msg-1", nil)

	_, err := s.svc.StartDuel(s.ctx, &StartDuelInput{
		RoomID:     s.testRoomID,
		AttackerID: "attacker",
		DefenderID: "defender",
	})
	s.Require().NoError(err)

	s.testNow = s.testNow.Add(DefaultDuelTimeout - time.Second)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(0, output.DuelsTimedOut)
	s.Equal(1, output.RoomsScanned)

	s.NotNil(s.getRoom().Duel)
}

func (s *ArenaServiceTestSuite) TestSweepLiftsExpiredPunishment() {
	end := s.testNow.Add(-time.Minute)
	s.seedCondemned("convict", "Convict", 10, "prosecutor", &end)

	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Nil()).
		Return("release-msg", nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.PunishmentsLifted)

	convict := s.getPlayer("convict")
	s.Equal(models.PlayerStatusNormal, convict.Status)
	s.Empty(convict.CondemnedBy)
	s.Nil(convict.PunishmentEnd)

	// The release also drops the player from the condemned index
	output, err = s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(0, output.PunishmentsLifted)
}

func (s *ArenaServiceTestSuite) TestSweepSkipsRunningSentences() {
	end := s.testNow.Add(time.Hour)
	s.seedCondemned("convict", "Convict", 10, "prosecutor", &end)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(0, output.PunishmentsLifted)

	s.Equal(models.PlayerStatusCondemned, s.getPlayer("convict").Status)
}

func (s *ArenaServiceTestSuite) TestSweepSkipsOpenEndedSentences() {
	// No term chosen yet
	s.seedCondemned("convict", "Convict", 10, "prosecutor", nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(0, output.PunishmentsLifted)

	s.Equal(models.PlayerStatusCondemned, s.getPlayer("convict").Status)
}
