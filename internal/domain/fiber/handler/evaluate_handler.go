package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mfaqihw/dev-screener/internal/dto"
	"github.com/mfaqihw/dev-screener/internal/middleware"
	"github.com/mfaqihw/dev-screener/internal/model"
	"github.com/mfaqihw/dev-screener/internal/response"
	"github.com/mfaqihw/dev-screener/internal/service"
	"github.com/mfaqihw/dev-screener/internal/usecase"
	"github.com/mfaqihw/dev-screener/internal/util"
)

type EvaluateHandler struct {
	uc *usecase.EvaluationUsecase
}

func NewEvaluateHandler(uc *usecase.EvaluationUsecase) *EvaluateHandler {
	return &EvaluateHandler{uc: uc}
}

func (h *EvaluateHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/evaluate/:login", middleware.RateLimiter(5, 10*time.Second), h.Evaluate)
	app.Get("/result/:id", h.Result)
	app.Get("/candidates/:login/profile", h.Profile)
	app.Post("/candidates/:login/match/:jobId", h.Match)
	app.Get("/candidates/:login/recommendations", h.Recommendations)
	app.Post("/candidates", h.CreateCandidate)
	app.Post("/candidates/:id/stack-match/:jobId", h.StackMatch)
	app.Post("/jobs", h.CreateJob)
	app.Get("/jobs", h.ListJobs)
	app.Post("/jobs/:jobId/rank", h.Rank)
}

func (h *EvaluateHandler) Evaluate(c *fiber.Ctx) error {
	evaluation, err := h.uc.EvaluateCandidate(c.Context(), c.Params("login"))
	if err != nil {
		return upstreamError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate evaluated",
		Data:    toEvaluationDTO(evaluation),
	})
}

func (h *EvaluateHandler) Result(c *fiber.Ctx) error {
	evaluation, err := h.uc.GetResult(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "evaluation not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Evaluation result",
		Data:    toEvaluationDTO(evaluation),
	})
}

// Profile re-serves the cached workability profile; it evaluates on a
// cache miss.
func (h *EvaluateHandler) Profile(c *fiber.Ctx) error {
	evaluation, err := h.uc.EvaluateCandidate(c.Context(), c.Params("login"))
	if err != nil {
		return upstreamError(c, err)
	}
	profile, err := evaluation.DecodeProfile()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to decode stored profile",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Workability profile",
		Data:    profile,
	})
}

func (h *EvaluateHandler) Match(c *fiber.Ctx) error {
	result, err := h.uc.MatchCandidate(c.Context(), c.Params("login"), c.Params("jobId"))
	if err != nil {
		return upstreamError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Match result",
		Data:    result,
	})
}

func (h *EvaluateHandler) StackMatch(c *fiber.Ctx) error {
	result, err := h.uc.MatchStoredCandidate(c.Context(), c.Params("id"), c.Params("jobId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to score candidate",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Match result",
		Data:    result,
	})
}

func (h *EvaluateHandler) Recommendations(c *fiber.Ctx) error {
	jobs, err := h.uc.RecommendJobs(c.Context(), c.Params("login"), c.QueryInt("top", 5))
	if err != nil {
		return upstreamError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Recommended jobs",
		Data:    jobs,
	})
}

func (h *EvaluateHandler) CreateCandidate(c *fiber.Ctx) error {
	var input usecase.CreateCandidateInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid candidate payload",
		}, err)
	}
	candidate, err := h.uc.CreateCandidate(input)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to store candidate",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Candidate stored",
		Data:    candidate,
	})
}

func (h *EvaluateHandler) CreateJob(c *fiber.Ctx) error {
	var input usecase.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid job payload",
		}, err)
	}
	job, err := h.uc.CreateJob(c.Context(), input)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to store job",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job stored",
		Data:    job,
	})
}

func (h *EvaluateHandler) ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	jobs, total, err := h.uc.ListJobs(page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list jobs",
		}, err)
	}
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Jobs",
		Data:    jobs,
		Pagination: &response.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
			HasMore:    int64(page) < totalPages,
			From:       (page-1)*pageSize + 1,
			To:         (page-1)*pageSize + len(jobs),
		},
	})
}

type rankRequest struct {
	Logins []string `json:"logins"`
}

func (h *EvaluateHandler) Rank(c *fiber.Ctx) error {
	var req rankRequest
	if err := c.BodyParser(&req); err != nil || len(req.Logins) == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "logins list is required",
		}, err)
	}
	ranked, err := h.uc.RankCandidatesForJob(c.Context(), c.Params("jobId"), req.Logins)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to rank candidates",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Ranked candidates",
		Data:    ranked,
	})
}

// upstreamError maps the upstream error taxonomy onto HTTP statuses:
// unknown user is 404, rate limiting is 429, anything else is a generic
// 500.
func upstreamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "candidate not found on the hosting platform",
		}, err)
	case errors.Is(err, service.ErrRateLimited):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusTooManyRequests,
			Message: "hosting platform rate limit exceeded, retry later",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "evaluation failed",
		}, err)
	}
}

func toEvaluationDTO(evaluation *model.CandidateEvaluation) dto.EvaluationDTO {
	out := dto.EvaluationDTO{
		ID:        evaluation.ID,
		Login:     evaluation.Login,
		Status:    evaluation.Status,
		IsMock:    evaluation.IsMock,
		CreatedAt: evaluation.CreatedAt,
		UpdatedAt: evaluation.UpdatedAt,
	}
	if signals, err := evaluation.DecodeSignals(); err == nil {
		out.Signals = signals
	}
	if profile, err := evaluation.DecodeProfile(); err == nil {
		out.Profile = profile
	}
	return out
}
