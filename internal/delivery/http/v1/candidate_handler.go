package v1

import (
	"net/http"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	me := r.Group("/me")
	{
		me.GET("", handler.GetAccount)
		me.PUT("", handler.UpdateAccount)
	}
}

type UpdateAccountRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// GetAccount godoc
// @Summary      Get the current account
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetAccount(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	candidate, err := h.candidateUC.GetAccount(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved", candidate)
}

// UpdateAccount godoc
// @Summary      Update the current account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        account  body      UpdateAccountRequest  true  "Account JSON"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /me [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateAccount(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	email := c.GetString(string(domain.KeyUserEmail))

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	candidate := &domain.Candidate{
		ID:    userID,
		Name:  req.Name,
		Email: email,
		Phone: req.Phone,
	}
	if err := h.candidateUC.UpdateAccount(c.Request.Context(), candidate); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account updated", nil)
}
