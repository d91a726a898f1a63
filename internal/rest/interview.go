package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"pawScout/business/engine"
	"pawScout/business/interview"
	"pawScout/domain"
	"pawScout/pkg/logger"
	"pawScout/pkg/utils"
)

const sessionTokenTTL = 24 * time.Hour

type (
	InterviewHandler struct {
		validate         *validator.Validate
		interviewService InterviewService
		tokenStore       TokenStore
	}

	InterviewService interface {
		StartSession(ctx context.Context) (domain.Session, error)
		Answer(ctx context.Context, sessionID, needID string, answer domain.Answer, questionID string) error
		NextQuestion(ctx context.Context, sessionID string) (interview.NextQuestion, error)
		QuestionRankings(ctx context.Context, sessionID string, topK int) ([]engine.QuestionRanking, error)
		Matches(ctx context.Context, sessionID string, topK int) ([]domain.BreedScore, error)
		MatchesDetailed(ctx context.Context, sessionID string, topK int) ([]engine.MatchResult, error)
		Explanation(ctx context.Context, sessionID string, topK int) ([]engine.Explanation, error)
		ExportProfile(ctx context.Context, sessionID string) (domain.ProfileDoc, error)
		ImportProfile(ctx context.Context, data []byte) (domain.Session, error)
		ShareCode(ctx context.Context, sessionID string) (string, error)
		Restore(ctx context.Context, code string) (string, error)
	}

	// TokenStore mirrors the Redis-backed token registry; nil disables
	// revocation and leaves plain JWT validation.
	TokenStore interface {
		SaveToken(ctx context.Context, token, sessionID string, ttl time.Duration) error
	}

	AnswerRequest struct {
		NeedID     string `json:"need_id" validate:"required"`
		Answer     string `json:"answer" validate:"required,oneof=yes no unknown independent"`
		QuestionID string `json:"question_id"`
	}

	RestoreRequest struct {
		Code string `json:"code" validate:"required"`
	}

	TopKQuery struct {
		N int `query:"n"`
	}

	SessionResponse struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
)

func NewInterviewHandler(svc InterviewService, tokenStore TokenStore) *InterviewHandler {
	return &InterviewHandler{
		validate:         validator.New(),
		interviewService: svc,
		tokenStore:       tokenStore,
	}
}

func (h *InterviewHandler) issueToken(ctx context.Context, sessionID string) (string, error) {
	token, err := utils.GenerateJWT(sessionID, sessionTokenTTL)
	if err != nil {
		return "", err
	}
	if h.tokenStore != nil {
		if err := h.tokenStore.SaveToken(ctx, token, sessionID, sessionTokenTTL); err != nil {
			return "", err
		}
	}
	return token, nil
}

// POST /sessions
func (h *InterviewHandler) StartSession(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := h.interviewService.StartSession(ctx)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	token, err := h.issueToken(ctx, sess.ID)
	if err != nil {
		logger.Error("Failed to issue session token", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to issue token"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(SessionResponse{
		SessionID: sess.ID,
		Token:     token,
	}))
}

// POST /sessions/import
func (h *InterviewHandler) ImportProfile(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sess, err := h.interviewService.ImportProfile(ctx, body)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	token, err := h.issueToken(ctx, sess.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to issue token"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(SessionResponse{
		SessionID: sess.ID,
		Token:     token,
	}))
}

// POST /sessions/restore
func (h *InterviewHandler) Restore(c echo.Context) error {
	ctx := c.Request().Context()

	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sessionID, err := h.interviewService.Restore(ctx, req.Code)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	token, err := h.issueToken(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to issue token"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(SessionResponse{
		SessionID: sessionID,
		Token:     token,
	}))
}

// POST /sessions/:id/answers
func (h *InterviewHandler) Answer(c echo.Context) error {
	sessionID := c.Param("id")

	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	answer, _ := domain.ParseAnswer(req.Answer)
	err := h.interviewService.Answer(c.Request().Context(), sessionID, req.NeedID, answer, req.QuestionID)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("answer recorded"))
}

// GET /sessions/:id/question
func (h *InterviewHandler) NextQuestion(c echo.Context) error {
	nq, err := h.interviewService.NextQuestion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(nq))
}

// GET /sessions/:id/questions?n=5
func (h *InterviewHandler) QuestionRankings(c echo.Context) error {
	var q TopKQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	rankings, err := h.interviewService.QuestionRankings(c.Request().Context(), c.Param("id"), q.N)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(rankings))
}

// GET /sessions/:id/matches?n=10
func (h *InterviewHandler) Matches(c echo.Context) error {
	var q TopKQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	matches, err := h.interviewService.Matches(c.Request().Context(), c.Param("id"), q.N)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(matches))
}

// GET /sessions/:id/matches/detailed?n=10
func (h *InterviewHandler) MatchesDetailed(c echo.Context) error {
	var q TopKQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	results, err := h.interviewService.MatchesDetailed(c.Request().Context(), c.Param("id"), q.N)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}

// GET /sessions/:id/explanation?n=3
func (h *InterviewHandler) Explanation(c echo.Context) error {
	var q TopKQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	explanations, err := h.interviewService.Explanation(c.Request().Context(), c.Param("id"), q.N)
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(explanations))
}

// GET /sessions/:id/profile
func (h *InterviewHandler) ExportProfile(c echo.Context) error {
	doc, err := h.interviewService.ExportProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(doc))
}

// GET /sessions/:id/share
func (h *InterviewHandler) ShareCode(c echo.Context) error {
	code, err := h.interviewService.ShareCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"code": code}))
}
