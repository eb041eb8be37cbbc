package arena

import (
	"time"

	"go.uber.org/mock/gomock"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

func (s *ArenaServiceTestSuite) openTrial() {
	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Len(2)).
		Return("trial-msg", nil)

	_, err := s.svc.StartTrial(s.ctx, &StartTrialInput{
		RoomID:       s.testRoomID,
		ProsecutorID: "prosecutor",
		DefendantID:  "defendant",
	})
	s.Require().NoError(err)
}

func (s *ArenaServiceTestSuite) TestStartTrialOpensVoting() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)

	s.openTrial()

	room := s.getRoom()
	s.Require().NotNil(room.Trial)
	s.Equal("prosecutor", room.Trial.ProsecutorID)
	s.Equal("defendant", room.Trial.DefendantID)
	s.Equal("trial-msg", room.Trial.MessageID)
	s.Equal(s.testNow.Add(DefaultTrialDuration).Unix(), room.Trial.Deadline.Unix())
}

func (s *ArenaServiceTestSuite) TestStartTrialRejectsSecondTrial() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)

	s.openTrial()

	_, err := s.svc.StartTrial(s.ctx, &StartTrialInput{
		RoomID:       s.testRoomID,
		ProsecutorID: "defendant",
		DefendantID:  "prosecutor",
	})
	s.Require().ErrorIs(err, ErrTrialInProgress)
}

func (s *ArenaServiceTestSuite) TestPartiesCannotVote() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)

	s.openTrial()

	_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "prosecutor",
		Guilty:  true,
	})
	s.Require().ErrorIs(err, ErrPartiesCannotVote)

	_, err = s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "defendant",
		Guilty:  false,
	})
	s.Require().ErrorIs(err, ErrPartiesCannotVote)
}

func (s *ArenaServiceTestSuite) TestVoterVotesOnlyOnce() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)
	s.seedPlayer("voter", "Voter", 10)

	s.openTrial()

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "trial-msg", gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "voter",
		Guilty:  true,
	})
	s.Require().NoError(err)
	s.Equal(1, output.GuiltyCount)
	s.Equal(0, output.InnocentCount)

	// Switching sides does not help either
	_, err = s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "voter",
		Guilty:  false,
	})
	s.Require().ErrorIs(err, ErrAlreadyVoted)
}

func (s *ArenaServiceTestSuite) TestVoteWithoutTrial() {
	s.seedPlayer("voter", "Voter", 10)

	_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "voter",
		Guilty:  true,
	})
	s.Require().ErrorIs(err, ErrNoActiveTrial)
}

func (s *ArenaServiceTestSuite) TestSweepConvictsOnGuiltyMajority() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)
	s.seedPlayer("voter-1", "VoterOne", 10)
	s.seedPlayer("voter-2", "VoterTwo", 10)
	s.seedPlayer("voter-3", "VoterThree", 10)

	s.openTrial()

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "trial-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		Times(3)

	for _, vote := range []struct {
		voterID string
		guilty  bool
	}{
		{"voter-1", true},
		{"voter-2", true},
		{"voter-3", false},
	} {
		_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
			RoomID:  s.testRoomID,
			VoterID: vote.voterID,
			Guilty:  vote.guilty,
		})
		s.Require().NoError(err)
	}

	s.testNow = s.testNow.Add(DefaultTrialDuration + time.Second)

	// The tally message makes way for the sentence picker
	s.mockMessenger.EXPECT().
		Delete(gomock.Any(), s.testRoomID, "trial-msg").
		Return(nil)
	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Len(len(SentenceTermHours))).
		Return("sentence-msg", nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.TrialsResolved)
	s.Equal(1, output.RoomsScanned)

	defendant := s.getPlayer("defendant")
	s.Equal(models.PlayerStatusCondemned, defendant.Status)
	s.Equal("prosecutor", defendant.CondemnedBy)
	s.Nil(defendant.PunishmentEnd)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestSweepAcquitsOnTieAndFinesProsecutor() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)
	s.seedPlayer("voter-1", "VoterOne", 10)
	s.seedPlayer("voter-2", "VoterTwo", 10)

	s.openTrial()

	s.mockMessenger.EXPECT().
		Edit(gomock.Any(), s.testRoomID, "trial-msg", gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "voter-1",
		Guilty:  true,
	})
	s.Require().NoError(err)
	_, err = s.svc.CastVote(s.ctx, &CastVoteInput{
		RoomID:  s.testRoomID,
		VoterID: "voter-2",
		Guilty:  false,
	})
	s.Require().NoError(err)

	s.testNow = s.testNow.Add(DefaultTrialDuration + time.Second)

	s.mockMessenger.EXPECT().
		Delete(gomock.Any(), s.testRoomID, "trial-msg").
		Return(nil)
	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Nil()).
		Return("verdict-msg", nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.TrialsResolved)

	s.Equal(models.PlayerStatusNormal, s.getPlayer("defendant").Status)
	s.Equal(10-ProsecutorFine, s.getPlayer("prosecutor").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestSweepAcquitsWhenNobodyVoted() {
	s.seedPlayer("prosecutor", "Prosecutor", 10)
	s.seedPlayer("defendant", "Defendant", 10)

	s.openTrial()

	s.testNow = s.testNow.Add(DefaultTrialDuration + time.Second)

	s.mockMessenger.EXPECT().
		Delete(gomock.Any(), s.testRoomID, "trial-msg").
		Return(nil)
	s.mockMessenger.EXPECT().
		Send(gomock.Any(), s.testRoomID, gomock.Any(), gomock.Nil()).
		Return("verdict-msg", nil)

	output, err := s.svc.Sweep(s.ctx, &SweepInput{})
	s.Require().NoError(err)
	s.Equal(1, output.TrialsResolved)

	// An empty tally acquits; the prosecutor still pays for the failed
	// accusation
	s.Equal(models.PlayerStatusNormal, s.getPlayer("defendant").Status)
	s.Equal(10-ProsecutorFine, s.getPlayer("prosecutor").Size)
	s.roomGone()
}

func (s *ArenaServiceTestSuite) TestChooseSentenceSetsTerm() {
	s.seedCondemned("defendant", "Defendant", 10, "prosecutor", nil)

	output, err := s.svc.ChooseSentence(s.ctx, &ChooseSentenceInput{
		RoomID:      s.testRoomID,
		ActorID:     "prosecutor",
		DefendantID: "defendant",
		Hours:       24,
	})
	s.Require().NoError(err)
	s.Equal(s.testNow.Add(24*time.Hour).Unix(), output.EndsAt.Unix())

	defendant := s.getPlayer("defendant")
	s.Require().NotNil(defendant.PunishmentEnd)
	s.Equal(output.EndsAt.Unix(), defendant.PunishmentEnd.Unix())
}

func (s *ArenaServiceTestSuite) TestChooseSentenceRejectsUnknownTerm() {
	s.seedCondemned("defendant", "Defendant", 10, "prosecutor", nil)

	_, err := s.svc.ChooseSentence(s.ctx, &ChooseSentenceInput{
		RoomID:      s.testRoomID,
		ActorID:     "prosecutor",
		DefendantID: "defendant",
		Hours:       5,
	})
	s.Require().ErrorIs(err, ErrInvalidTerm)
}

func (s *ArenaServiceTestSuite) TestChooseSentenceOnlyByCondemner() {
	s.seedCondemned("defendant", "Defendant", 10, "prosecutor", nil)

	_, err := s.svc.ChooseSentence(s.ctx, &ChooseSentenceInput{
		RoomID:      s.testRoomID,
		ActorID:     "bystander",
		DefendantID: "defendant",
		Hours:       24,
	})
	s.Require().ErrorIs(err, ErrNotCondemner)

	s.Nil(s.getPlayer("defendant").PunishmentEnd)
}

func (s *ArenaServiceTestSuite) TestExecuteZeroesCondemnedPlayer() {
	s.seedCondemned("target", "Target", 42, "executioner", nil)

	output, err := s.svc.Execute(s.ctx, &ExecuteInput{
		RoomID:        s.testRoomID,
		ExecutionerID: "executioner",
		TargetID:      "target",
	})
	s.Require().NoError(err)
	s.Equal("Target", output.TargetName)

	target := s.getPlayer("target")
	s.Equal(models.PlayerStatusExecuted, target.Status)
	s.Equal(0, target.Size)
	s.Equal(42, target.SizeBeforeExecution)
	s.Require().NotNil(target.ExecutedAt)
	s.Equal(s.testNow.Unix(), target.ExecutedAt.Unix())
}

func (s *ArenaServiceTestSuite) TestExecuteOnlyByCondemner() {
	s.seedCondemned("target", "Target", 42, "executioner", nil)

	_, err := s.svc.Execute(s.ctx, &ExecuteInput{
		RoomID:        s.testRoomID,
		ExecutionerID: "bystander",
		TargetID:      "target",
	})
	s.Require().ErrorIs(err, ErrCannotExecute)

	s.Equal(42, s.getPlayer("target").Size)
}

func (s *ArenaServiceTestSuite) TestPardonRestoresWithinWindow() {
	s.seedCondemned("target", "Target", 42, "executioner", nil)

	_, err := s.svc.Execute(s.ctx, &ExecuteInput{
		RoomID:        s.testRoomID,
		ExecutionerID: "executioner",
		TargetID:      "target",
	})
	s.Require().NoError(err)

	s.testNow = s.testNow.Add(10 * time.Minute)

	output, err := s.svc.Pardon(s.ctx, &PardonInput{
		RoomID:   s.testRoomID,
		TargetID: "target",
	})
	s.Require().NoError(err)
	s.Equal(42, output.RestoredSize)

	target := s.getPlayer("target")
	s.Equal(models.PlayerStatusNormal, target.Status)
	s.Equal(42, target.Size)
}

func (s *ArenaServiceTestSuite) TestPardonTooLate() {
	s.seedCondemned("target", "Target", 42, "executioner", nil)

	_, err := s.svc.Execute(s.ctx, &ExecuteInput{
		RoomID:        s.testRoomID,
		ExecutionerID: "executioner",
		TargetID:      "target",
	})
	s.Require().NoError(err)

	s.testNow = s.testNow.Add(DefaultPardonWindow + time.Minute)

	_, err = s.svc.Pardon(s.ctx, &PardonInput{
		RoomID:   s.testRoomID,
		TargetID: "target",
	})
	s.Require().ErrorIs(err, ErrPardonTooLate)

	s.Equal(0, s.getPlayer("target").Size)
}

func (s *ArenaServiceTestSuite) TestPardonRequiresExecution() {
	s.seedPlayer("target", "Target", 10)

	_, err := s.svc.Pardon(s.ctx, &PardonInput{
		RoomID:   s.testRoomID,
		TargetID: "target",
	})
	s.Require().ErrorIs(err, ErrNotExecuted)
}
