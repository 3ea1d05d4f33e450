package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"hotandcold/internal/app"
	"hotandcold/internal/config"
	"hotandcold/internal/ports"
)

// gRPC status codes used for runtime errors.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnavailable        = 14
	codeUnauthenticated    = 16
)

// rpcFunc matches the Nakama runtime RPC signature.
type rpcFunc = func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcHandlers adapts the application service to Nakama's RPC signature.
type rpcHandlers struct {
	svc *app.Service
}

// RegisterRPCs registers every game RPC with the Nakama runtime.
func RegisterRPCs(initializer runtime.Initializer, svc *app.Service) error {
	h := &rpcHandlers{svc: svc}

	for id, fn := range map[string]rpcFunc{
		RpcSubmitGuess:  h.submitGuess,
		RpcRequestHint:  h.requestHint,
		RpcGiveUp:       h.giveUp,
		RpcGetGame:      h.getGame,
		RpcLeaderboard:  h.leaderboard,
		RpcNewChallenge: h.newChallenge,
	} {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

type guessPayload struct {
	Challenge int    `json:"challenge"`
	Guess     string `json:"guess"`
	Avatar    string `json:"avatar,omitempty"`
}

type playerPayload struct {
	Challenge int    `json:"challenge"`
	Avatar    string `json:"avatar,omitempty"`
}

type newChallengePayload struct {
	Word string `json:"word"`
}

// caller pulls the authenticated identity out of the runtime context.
func caller(ctx context.Context) (userID, username string, err error) {
	userID, _ = ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	username, _ = ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string)
	if userID == "" || username == "" {
		return "", "", runtime.NewError("No user session.", codeUnauthenticated)
	}
	return userID, username, nil
}

func (h *rpcHandlers) submitGuess(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, username, err := caller(ctx)
	if err != nil {
		return "", err
	}

	var p guessPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", runtime.NewError("Invalid payload.", codeInvalidArgument)
	}
	if strings.ContainsAny(strings.TrimSpace(p.Guess), " \t") || strings.TrimSpace(p.Guess) == "" {
		return "", runtime.NewError("Please guess a single word.", codeInvalidArgument)
	}

	challenge, err := h.resolveChallenge(ctx, p.Challenge)
	if err != nil {
		return "", err
	}

	snap, err := h.svc.SubmitGuess(ctx, app.GuessRequest{
		UserID:    userID,
		Username:  username,
		Avatar:    p.Avatar,
		Challenge: challenge,
		Guess:     p.Guess,
	})
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(snap)
}

func (h *rpcHandlers) requestHint(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req, err := h.playerRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	snap, err := h.svc.RequestHint(ctx, req)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(snap)
}

func (h *rpcHandlers) giveUp(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req, err := h.playerRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	snap, err := h.svc.GiveUp(ctx, req)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(snap)
}

func (h *rpcHandlers) getGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req, err := h.playerRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	snap, err := h.svc.GetGame(ctx, req)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(snap)
}

func (h *rpcHandlers) leaderboard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _, err := caller(ctx)
	if err != nil {
		return "", err
	}

	var p playerPayload
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return "", runtime.NewError("Invalid payload.", codeInvalidArgument)
		}
	}
	challenge, err := h.resolveChallenge(ctx, p.Challenge)
	if err != nil {
		return "", err
	}

	view, err := h.svc.Leaderboard(ctx, challenge, userID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(view)
}

// newChallenge is restricted to server-to-server calls (empty user id). When
// the payload names no word, one is drawn from the configured pool.
func (h *rpcHandlers) newChallenge(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); userID != "" {
		return "", runtime.NewError("This RPC is server-to-server only.", codePermissionDenied)
	}

	var p newChallengePayload
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return "", runtime.NewError("Invalid payload.", codeInvalidArgument)
		}
	}
	word := p.Word
	if word == "" {
		word = randomWord()
	}
	if word == "" {
		return "", runtime.NewError("No secret word supplied and no word pool configured.", codeFailedPrecondition)
	}

	ch, err := h.svc.NewChallenge(ctx, word)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return encode(map[string]interface{}{"number": ch.Number})
}

func (h *rpcHandlers) playerRequest(ctx context.Context, payload string) (app.PlayerRequest, error) {
	userID, username, err := caller(ctx)
	if err != nil {
		return app.PlayerRequest{}, err
	}

	var p playerPayload
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return app.PlayerRequest{}, runtime.NewError("Invalid payload.", codeInvalidArgument)
		}
	}
	challenge, err := h.resolveChallenge(ctx, p.Challenge)
	if err != nil {
		return app.PlayerRequest{}, err
	}

	return app.PlayerRequest{
		UserID:    userID,
		Username:  username,
		Avatar:    p.Avatar,
		Challenge: challenge,
	}, nil
}

// resolveChallenge falls back to the live challenge when the client sends none.
func (h *rpcHandlers) resolveChallenge(ctx context.Context, challenge int) (int, error) {
	if challenge > 0 {
		return challenge, nil
	}
	current, err := h.svc.CurrentChallenge(ctx)
	if err != nil {
		return 0, runtime.NewError("Failed to resolve current challenge.", codeInternal)
	}
	if current == 0 {
		return 0, runtime.NewError("No challenge is live yet.", codeNotFound)
	}
	return current, nil
}

// toRuntimeError maps application errors onto runtime errors with gRPC codes.
// User-facing messages pass through verbatim.
func toRuntimeError(logger runtime.Logger, err error) error {
	var dup *app.DuplicateGuessError
	var unknown *app.UnknownWordError
	var external *app.ExternalServiceError

	switch {
	case errors.As(err, &dup), errors.As(err, &unknown):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, ports.ErrChallengeNotFound):
		return runtime.NewError("Challenge not found.", codeNotFound)
	case errors.Is(err, app.ErrAlreadySolved), errors.Is(err, app.ErrAlreadyGaveUp), errors.Is(err, app.ErrNoHintAvailable):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	case errors.As(err, &external):
		logger.Error("Oracle failure: %v", err)
		return runtime.NewError("The word service is unavailable, try again shortly.", codeUnavailable)
	case errors.Is(err, app.ErrSolvedWithoutStart):
		logger.Error("Data integrity failure: %v", err)
		return runtime.NewError("Something went wrong recording your game.", codeInternal)
	default:
		logger.Error("Unhandled RPC failure: %v", err)
		return runtime.NewError("Internal error.", codeInternal)
	}
}

func randomWord() string {
	words := config.GetWords()
	if len(words) == 0 {
		return ""
	}
	return words[rand.Intn(len(words))]
}

func encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("Failed to encode response.", codeInternal)
	}
	return string(data), nil
}
