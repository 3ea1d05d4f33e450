package nakama

// RPC ids registered with the Nakama runtime.
const (
	RpcSubmitGuess  = "submit_guess"
	RpcRequestHint  = "request_hint"
	RpcGiveUp       = "give_up"
	RpcGetGame      = "get_game"
	RpcLeaderboard  = "challenge_leaderboard"
	RpcNewChallenge = "new_challenge"
)

// Storage collections. All game state is system-owned except streaks, which
// live on the user's own account.
const (
	challengeCollection = "challenges"
	ledgerCollection    = "challenge_guesses"
	playersCollection   = "challenge_players"
	streakCollection    = "streaks"

	currentChallengeKey = "current"
	streakKey           = "streak"
)

// notificationCodeSolve tags solve broadcasts for clients.
const notificationCodeSolve = 110
