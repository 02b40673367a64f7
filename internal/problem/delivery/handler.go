package delivery

import (
	"log"
	"net/http"

	authdelivery "cpsheet-backend/internal/auth/delivery"
	problemdto "cpsheet-backend/internal/problem/dto"
	"cpsheet-backend/internal/problem/usecase"
	"cpsheet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProblemHandler struct {
	problemUsecase usecase.ProblemUsecase
}

func NewProblemHandler(problemUsecase usecase.ProblemUsecase) *ProblemHandler {
	return &ProblemHandler{
		problemUsecase: problemUsecase,
	}
}

func (h *ProblemHandler) Add(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req problemdto.CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("problem name and link are required"))
		return
	}

	problem, err := h.problemUsecase.Add(user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, problem, "problem added successfully")
}

func (h *ProblemHandler) List(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	favouritesOnly := c.Query("favorites") == "true"

	problems, err := h.problemUsecase.List(user.ID, favouritesOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, problems, "user problems fetched successfully")
}

func (h *ProblemHandler) Update(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req problemdto.UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("invalid request body"))
		return
	}

	problem, err := h.problemUsecase.Update(user.ID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, problem, "problem updated successfully")
}

func (h *ProblemHandler) Delete(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.problemUsecase.Delete(user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "problem deleted successfully")
}

func (h *ProblemHandler) ToggleFavourite(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	problem, err := h.problemUsecase.ToggleFavourite(user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "problem removed from favorites"
	if problem.IsFavourite {
		message = "problem marked as favorite"
	}
	respond(c, http.StatusOK, problem, message)
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    true,
	})
}

func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %v", err)
	}
	c.JSON(status, gin.H{
		"statusCode": status,
		"message":    apperror.UserMessage(err),
		"success":    false,
	})
}
