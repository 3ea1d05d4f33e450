// Package app contains the guess-submission use-cases. The orchestrator here
// is the sole writer of challenge counters and guess records; leaderboards,
// progress, and streaks are written only through their ports.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/samber/lo"

	"hotandcold/internal/app/score"
	"hotandcold/internal/domain"
	"hotandcold/internal/ports"
)

const (
	// maxWriteAttempts bounds the optimistic-locking retry loop around the
	// per-user read-modify-write cycle.
	maxWriteAttempts = 4

	defaultProgressLimit = 100
	leaderboardTopLimit  = 25
	announceTimeout      = 10 * time.Second
)

// Oracle is the cached similarity oracle surface the orchestrator consumes.
// *similarity.Client implements it.
type Oracle interface {
	Compare(ctx context.Context, secretWord, guessWord string) (ports.Comparison, error)
	NeighborTable(ctx context.Context, secretWord string) (domain.NeighborTable, error)
	Reset()
	Warm(ctx context.Context, words []string) error
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	Oracle      Oracle
	Challenges  ports.ChallengeStore
	Ledger      ports.GuessLedger
	Players     ports.PlayerRegistry
	Leaderboard ports.Leaderboard
	Progress    ports.ProgressTracker
	Streaks     ports.StreakTracker
	// Announcer may be nil to disable solve broadcasts.
	Announcer ports.Announcer
	// Scorer defaults to score.NewDefault().
	Scorer score.Strategy
	Logger runtime.Logger
	// Now defaults to time.Now; injected for tests.
	Now func() time.Time
	// ProgressLimit caps the progress rows returned per snapshot.
	ProgressLimit int
}

// Service composes the stores, oracle, scorer, and side channels into the
// guess-submission transaction.
type Service struct {
	oracle      Oracle
	challenges  ports.ChallengeStore
	ledger      ports.GuessLedger
	players     ports.PlayerRegistry
	leaderboard ports.Leaderboard
	progress    ports.ProgressTracker
	streaks     ports.StreakTracker
	announcer   ports.Announcer
	scorer      score.Strategy
	logger      runtime.Logger

	now           func() time.Time
	progressLimit int
}

// NewService constructs the orchestrator, applying defaults for optional deps.
func NewService(d Deps) *Service {
	if d.Scorer == nil {
		d.Scorer = score.NewDefault()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ProgressLimit <= 0 {
		d.ProgressLimit = defaultProgressLimit
	}
	return &Service{
		oracle:        d.Oracle,
		challenges:    d.Challenges,
		ledger:        d.Ledger,
		players:       d.Players,
		leaderboard:   d.Leaderboard,
		progress:      d.Progress,
		streaks:       d.Streaks,
		announcer:     d.Announcer,
		scorer:        d.Scorer,
		logger:        d.Logger,
		now:           d.Now,
		progressLimit: d.ProgressLimit,
	}
}

// GuessRequest is one raw guess from one player.
type GuessRequest struct {
	UserID    string
	Username  string
	Avatar    string
	Challenge int
	Guess     string
}

// PlayerRequest identifies a player acting on a challenge without a guess word
// (hints, give-ups, game init).
type PlayerRequest struct {
	UserID    string
	Username  string
	Avatar    string
	Challenge int
}

// ChallengeInfo is the aggregate view returned to clients. The secret word is
// stripped by construction.
type ChallengeInfo struct {
	TotalGuesses int `json:"totalGuesses"`
	TotalPlayers int `json:"totalPlayers"`
	TotalSolves  int `json:"totalSolves"`
	TotalHints   int `json:"totalHints"`
	TotalGiveUps int `json:"totalGiveUps"`
}

// GameSnapshot is the consistent view returned after every operation.
type GameSnapshot struct {
	Number            int                   `json:"number"`
	ChallengeUserInfo domain.UserChallenge  `json:"challengeUserInfo"`
	ChallengeInfo     ChallengeInfo         `json:"challengeInfo"`
	ChallengeProgress []ports.ProgressEntry `json:"challengeProgress"`
	// SecretWord is revealed only on the give-up path.
	SecretWord string `json:"word,omitempty"`
}

// SubmitGuess validates, scores, and records one guess, retrying the per-user
// read-modify-write cycle when a concurrent submission for the same user wins
// the version race.
func (s *Service) SubmitGuess(ctx context.Context, req GuessRequest) (*GameSnapshot, error) {
	rawGuess := strings.ToLower(strings.TrimSpace(req.Guess))
	if rawGuess == "" {
		return nil, errors.New("guess must not be empty")
	}

	var (
		snap *GameSnapshot
		err  error
	)
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		snap, err = s.submitGuessOnce(ctx, req, rawGuess)
		if !errors.Is(err, ports.ErrVersionConflict) {
			return snap, err
		}
		s.logger.Warn("Guess write for %s on challenge %d lost a version race, retrying", req.Username, req.Challenge)
	}
	return nil, err
}

func (s *Service) submitGuessOnce(ctx context.Context, req GuessRequest, rawGuess string) (*GameSnapshot, error) {
	st, err := s.beginTurn(ctx, PlayerRequest{
		UserID:    req.UserID,
		Username:  req.Username,
		Avatar:    req.Avatar,
		Challenge: req.Challenge,
	})
	if err != nil {
		return nil, err
	}

	cmp, err := s.oracle.Compare(ctx, st.challenge.Word, rawGuess)
	if err != nil {
		return nil, &ExternalServiceError{Op: "compare", Err: err}
	}

	if prev, ok := domain.FindGuess(st.entry.Guesses, cmp.Lemma); ok {
		return nil, &DuplicateGuessError{
			Word:                 cmp.Lemma,
			NormalizedSimilarity: prev.NormalizedSimilarity,
			Rewritten:            rawGuess != cmp.Lemma,
		}
	}

	if !cmp.Known {
		return nil, &UnknownWordError{Word: cmp.Lemma}
	}

	table, err := s.oracle.NeighborTable(ctx, st.challenge.Word)
	if err != nil {
		return nil, &ExternalServiceError{Op: "nearest words", Err: err}
	}

	st.guess = domain.Guess{
		Word:                 cmp.Lemma,
		Timestamp:            st.now.UnixMilli(),
		Similarity:           cmp.Similarity,
		NormalizedSimilarity: table.Normalize(cmp.Similarity),
		Rank:                 table.RankOf(cmp.Lemma, cmp.Similarity),
	}

	return s.commitGuess(ctx, st)
}

// RequestHint records a hint guess picked from the neighbor table. Hints count
// against totalGuesses and totalHints but never raise displayed progress.
func (s *Service) RequestHint(ctx context.Context, req PlayerRequest) (*GameSnapshot, error) {
	var (
		snap *GameSnapshot
		err  error
	)
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		snap, err = s.requestHintOnce(ctx, req)
		if !errors.Is(err, ports.ErrVersionConflict) {
			return snap, err
		}
		s.logger.Warn("Hint write for %s on challenge %d lost a version race, retrying", req.Username, req.Challenge)
	}
	return nil, err
}

func (s *Service) requestHintOnce(ctx context.Context, req PlayerRequest) (*GameSnapshot, error) {
	st, err := s.beginTurn(ctx, req)
	if err != nil {
		return nil, err
	}

	table, err := s.oracle.NeighborTable(ctx, st.challenge.Word)
	if err != nil {
		return nil, &ExternalServiceError{Op: "nearest words", Err: err}
	}

	hint, rank, ok := pickHint(table, st.entry.Guesses)
	if !ok {
		return nil, ErrNoHintAvailable
	}

	st.guess = domain.Guess{
		Word:                 hint.Word,
		Timestamp:            st.now.UnixMilli(),
		Similarity:           hint.Similarity,
		NormalizedSimilarity: table.Normalize(hint.Similarity),
		Rank:                 rank,
		IsHint:               true,
	}

	return s.commitGuess(ctx, st)
}

// GiveUp abandons the challenge. The secret word is revealed on this path
// only, and the record becomes immutable afterwards.
func (s *Service) GiveUp(ctx context.Context, req PlayerRequest) (*GameSnapshot, error) {
	var (
		snap *GameSnapshot
		err  error
	)
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		snap, err = s.giveUpOnce(ctx, req)
		if !errors.Is(err, ports.ErrVersionConflict) {
			return snap, err
		}
		s.logger.Warn("Give-up write for %s on challenge %d lost a version race, retrying", req.Username, req.Challenge)
	}
	return nil, err
}

func (s *Service) giveUpOnce(ctx context.Context, req PlayerRequest) (*GameSnapshot, error) {
	st, err := s.beginTurn(ctx, req)
	if err != nil {
		return nil, err
	}

	st.entry.GaveUpAtMs = st.now.UnixMilli()
	version, err := s.ledger.Put(ctx, req.Challenge, st.entry)
	if err != nil {
		return nil, err
	}
	st.entry.Version = version

	if err := s.challenges.IncrementCounter(ctx, req.Challenge, ports.CounterTotalGiveUps, 1); err != nil {
		s.logger.Error("Failed to count give-up on challenge %d: %v", req.Challenge, err)
	}

	snap := s.snapshot(ctx, st)
	snap.ChallengeInfo.TotalGiveUps++
	snap.SecretWord = st.challenge.Word
	return snap, nil
}

// GetGame returns the read-only snapshot used for game init, lazily creating
// the player's record.
func (s *Service) GetGame(ctx context.Context, req PlayerRequest) (*GameSnapshot, error) {
	entry, err := s.ledger.GetOrInit(ctx, req.Challenge, req.Username)
	if err != nil {
		return nil, err
	}
	ch, err := s.challenges.GetChallenge(ctx, req.Challenge)
	if err != nil {
		return nil, err
	}

	st := turnState{player: req, challenge: ch, entry: entry}
	snap := s.snapshot(ctx, st)
	if entry.GaveUp() {
		snap.SecretWord = ch.Word
	}
	return snap, nil
}

// LeaderboardView is both orderings plus the requesting user's own standing.
type LeaderboardView struct {
	UserRank  *ports.UserRank          `json:"userRank,omitempty"`
	ByScore   []ports.LeaderboardEntry `json:"leaderboardByScore"`
	ByFastest []ports.LeaderboardEntry `json:"leaderboardByFastest"`
}

// Leaderboard returns the challenge leaderboard in both orderings.
func (s *Service) Leaderboard(ctx context.Context, challenge int, userID string) (*LeaderboardView, error) {
	view := &LeaderboardView{}

	rank, err := s.leaderboard.GetUserRank(ctx, challenge, userID)
	switch {
	case err == nil:
		view.UserRank = &rank
	case !errors.Is(err, ports.ErrNotRanked):
		return nil, err
	}

	if view.ByScore, err = s.leaderboard.GetTop(ctx, challenge, ports.OrderByScore, leaderboardTopLimit); err != nil {
		return nil, err
	}
	if view.ByFastest, err = s.leaderboard.GetTop(ctx, challenge, ports.OrderByTime, leaderboardTopLimit); err != nil {
		return nil, err
	}
	return view, nil
}

// CurrentChallenge resolves the live challenge number.
func (s *Service) CurrentChallenge(ctx context.Context) (int, error) {
	return s.challenges.CurrentChallengeNumber(ctx)
}

// NewChallenge creates the next challenge with the given secret word, advances
// the current-challenge pointer, and rebuilds the similarity caches.
func (s *Service) NewChallenge(ctx context.Context, word string) (domain.Challenge, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return domain.Challenge{}, errors.New("secret word must not be empty")
	}

	current, err := s.challenges.CurrentChallengeNumber(ctx)
	if err != nil {
		return domain.Challenge{}, err
	}

	ch := domain.Challenge{Number: current + 1, Word: word}
	if err := s.challenges.CreateChallenge(ctx, ch); err != nil {
		return domain.Challenge{}, err
	}
	if err := s.leaderboard.CreateBoards(ctx, ch.Number); err != nil {
		return domain.Challenge{}, err
	}
	if err := s.progress.CreateBoard(ctx, ch.Number); err != nil {
		return domain.Challenge{}, err
	}
	if err := s.challenges.SetCurrentChallengeNumber(ctx, ch.Number); err != nil {
		return domain.Challenge{}, err
	}

	// The previous challenge's oracle results are dead weight now.
	s.oracle.Reset()
	if err := s.oracle.Warm(ctx, []string{word}); err != nil {
		s.logger.Warn("Neighbor table warm for challenge %d failed: %v", ch.Number, err)
	}

	s.logger.Info("Created challenge %d", ch.Number)
	return ch, nil
}

// turnState carries one submission's working data between phases.
type turnState struct {
	player     PlayerRequest
	challenge  domain.Challenge
	entry      ports.LedgerEntry
	guess      domain.Guess
	firstGuess bool
	now        time.Time
}

// beginTurn runs the shared opening steps of every mutating operation: load
// the ledger entry and challenge, reject finished games, and handle the
// first-interaction registration.
func (s *Service) beginTurn(ctx context.Context, req PlayerRequest) (turnState, error) {
	st := turnState{player: req, now: s.now()}

	entry, err := s.ledger.GetOrInit(ctx, req.Challenge, req.Username)
	if err != nil {
		return st, err
	}
	st.entry = entry

	st.challenge, err = s.challenges.GetChallenge(ctx, req.Challenge)
	if err != nil {
		return st, err
	}

	if st.entry.Solved() {
		return st, ErrAlreadySolved
	}
	if st.entry.GaveUp() {
		return st, ErrAlreadyGaveUp
	}

	if !st.entry.Started() {
		st.firstGuess = true
		added, err := s.players.AddPlayer(ctx, req.Challenge, domain.PlayerProfile{
			Username: req.Username,
			Avatar:   req.Avatar,
		})
		if err != nil {
			return st, err
		}
		if added {
			if err := s.challenges.IncrementCounter(ctx, req.Challenge, ports.CounterTotalPlayers, 1); err != nil {
				return st, err
			}
		}

		// Persist the start immediately so participation is recorded even
		// when the guess itself is rejected.
		st.entry.StartedPlayingAtMs = st.now.UnixMilli()
		version, err := s.ledger.Put(ctx, req.Challenge, st.entry)
		if err != nil {
			return st, err
		}
		st.entry.Version = version
	}

	return st, nil
}

// commitGuess appends the scored guess, persists the record, and applies the
// win path. The oracle has already been consulted; nothing here holds a lock
// across external calls.
func (s *Service) commitGuess(ctx context.Context, st turnState) (*GameSnapshot, error) {
	st.entry.Guesses = domain.AppendGuess(st.entry.Guesses, st.guess, st.challenge.Word)

	hasSolved := st.guess.Similarity == 1
	var solveTime time.Duration
	if hasSolved {
		if !st.entry.Started() {
			s.logger.Error("Data integrity: %s solved challenge %d without a recorded start", st.player.Username, st.challenge.Number)
			return nil, ErrSolvedWithoutStart
		}
		solveTime = time.Duration(st.now.UnixMilli()-st.entry.StartedPlayingAtMs) * time.Millisecond
		expl := s.scorer.Calculate(solveTime, len(st.entry.Guesses), domain.CountHints(st.entry.Guesses))
		st.entry.SolvedAtMs = st.now.UnixMilli()
		st.entry.Score = &expl
	}

	version, err := s.ledger.Put(ctx, st.challenge.Number, st.entry)
	if err != nil {
		return nil, err
	}
	st.entry.Version = version

	// The guess is committed; remaining bookkeeping is logged on failure
	// rather than unwinding the player's write.
	number := st.challenge.Number
	if err := s.challenges.IncrementCounter(ctx, number, ports.CounterTotalGuesses, 1); err != nil {
		s.logger.Error("Failed to count guess on challenge %d: %v", number, err)
	}
	if st.guess.IsHint {
		if err := s.challenges.IncrementCounter(ctx, number, ports.CounterTotalHints, 1); err != nil {
			s.logger.Error("Failed to count hint on challenge %d: %v", number, err)
		}
	}

	if hasSolved {
		s.applyWin(ctx, st, solveTime)
	}

	if err := s.progress.UpsertEntry(ctx, number, st.player.UserID, st.player.Username, st.player.Avatar, domain.BestProgress(st.entry.Guesses)); err != nil {
		s.logger.Error("Failed to update progress for %s on challenge %d: %v", st.player.Username, number, err)
	}

	snap := s.snapshot(ctx, st)
	snap.ChallengeInfo.TotalGuesses++
	if st.firstGuess {
		snap.ChallengeInfo.TotalPlayers++
	}
	if st.guess.IsHint {
		snap.ChallengeInfo.TotalHints++
	}
	if hasSolved {
		snap.ChallengeInfo.TotalSolves++
	}
	return snap, nil
}

// applyWin runs the winner-only side effects: streak, solve counter,
// leaderboard, and the fire-and-forget announcement.
func (s *Service) applyWin(ctx context.Context, st turnState, solveTime time.Duration) {
	number := st.challenge.Number
	username := st.player.Username

	current, err := s.challenges.CurrentChallengeNumber(ctx)
	switch {
	case err != nil:
		s.logger.Error("Failed to resolve current challenge for streak update: %v", err)
	case current == number:
		if _, err := s.streaks.IncrementEntry(ctx, st.player.UserID, username, number); err != nil {
			s.logger.Error("Failed to increment streak for %s: %v", username, err)
		}
	default:
		s.logger.Info("%s solved past challenge %d, streak unchanged", username, number)
	}

	if err := s.challenges.IncrementCounter(ctx, number, ports.CounterTotalSolves, 1); err != nil {
		s.logger.Error("Failed to count solve on challenge %d: %v", number, err)
	}

	expl := *st.entry.Score
	if err := s.leaderboard.AddEntry(ctx, number, st.player.UserID, username, expl.FinalScore, solveTime.Milliseconds()); err != nil {
		s.logger.Error("Failed to add leaderboard entry for %s on challenge %d: %v", username, number, err)
	}

	s.announceSolve(ctx, st, expl, solveTime)
}

// announceSolve hands the celebratory broadcast to a background goroutine.
// Failures are logged and never surfaced to the player.
func (s *Service) announceSolve(ctx context.Context, st turnState, expl domain.ScoreExplanation, solveTime time.Duration) {
	if s.announcer == nil {
		return
	}

	guesses := st.entry.Guesses
	trail := strings.Join(lo.Map(guesses, func(g domain.Guess, _ int) string {
		return heatEmoji(g.Heat())
	}), "")

	a := ports.SolveAnnouncement{
		Username:     st.player.Username,
		Challenge:    st.challenge.Number,
		FinalScore:   expl.FinalScore,
		Perfect:      expl.Perfect(),
		TotalGuesses: len(guesses),
		TotalHints:   domain.CountHints(guesses),
		SolveTime:    solveTime,
		HeatTrail:    trail,
		ColdestGuess: domain.ColdestGuess(guesses),
		AverageHeat:  domain.AverageHeat(guesses),
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)
	go func() {
		defer cancel()
		if err := s.announcer.AnnounceSolve(bg, a); err != nil {
			s.logger.Error("Solve announcement for %s failed: %v", a.Username, err)
		}
	}()
}

// snapshot assembles the response view, reading back the top progress rows.
func (s *Service) snapshot(ctx context.Context, st turnState) *GameSnapshot {
	rows, err := s.progress.PlayerProgress(ctx, st.challenge.Number, st.player.Username, ports.SortDesc, s.progressLimit)
	if err != nil {
		s.logger.Error("Failed to read progress for challenge %d: %v", st.challenge.Number, err)
		rows = nil
	}

	return &GameSnapshot{
		Number:            st.challenge.Number,
		ChallengeUserInfo: st.entry.UserChallenge,
		ChallengeInfo: ChallengeInfo{
			TotalGuesses: st.challenge.TotalGuesses,
			TotalPlayers: st.challenge.TotalPlayers,
			TotalSolves:  st.challenge.TotalSolves,
			TotalHints:   st.challenge.TotalHints,
			TotalGiveUps: st.challenge.TotalGiveUps,
		},
		ChallengeProgress: rows,
	}
}

// pickHint chooses the hint word: aim halfway between the player's best rank
// and the top of the neighbor list, prefer the target or anything closer, then
// fall outward. Returns the word, its rank, and whether one was found.
func pickHint(table domain.NeighborTable, guesses []domain.Guess) (domain.SimilarWord, int, bool) {
	if len(table.SimilarWords) == 0 {
		return domain.SimilarWord{}, 0, false
	}

	bestRank := len(table.SimilarWords) + 1
	for _, g := range guesses {
		if g.Rank > 0 && g.Rank < bestRank {
			bestRank = g.Rank
		}
	}

	target := (bestRank - 1) / 2
	if target >= len(table.SimilarWords) {
		target = len(table.SimilarWords) - 1
	}

	guessed := make(map[string]bool, len(guesses))
	for _, g := range guesses {
		guessed[g.Word] = true
	}

	for i := target; i >= 0; i-- {
		if !guessed[table.SimilarWords[i].Word] {
			return table.SimilarWords[i], i + 1, true
		}
	}
	for i := target + 1; i < len(table.SimilarWords); i++ {
		if !guessed[table.SimilarWords[i].Word] {
			return table.SimilarWords[i], i + 1, true
		}
	}
	return domain.SimilarWord{}, 0, false
}

func heatEmoji(h domain.Heat) string {
	switch h {
	case domain.HeatHot:
		return "🔴"
	case domain.HeatWarm:
		return "🟡"
	default:
		return "🔵"
	}
}
