package v1

import (
	"net/http"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	wizardUC domain.WizardUsecase
}

func NewWizardHandler(r *gin.RouterGroup, wizardUC domain.WizardUsecase) {
	handler := &WizardHandler{wizardUC: wizardUC}

	wizard := r.Group("/wizard")
	{
		wizard.POST("/start", handler.Start)
		wizard.POST("/:sessionID/next", handler.Next)
		wizard.POST("/:sessionID/back", handler.Back)
		wizard.POST("/:sessionID/save-close", handler.SaveAndClose)
		wizard.POST("/:sessionID/exit", handler.Exit)
	}
}

type StartWizardRequest struct {
	JobID         *int64 `json:"job_id"`
	ApplicationID *int64 `json:"application_id"`
}

type ExitWizardRequest struct {
	Confirm bool `json:"confirm"`
}

// Start godoc
// @Summary      Open a wizard session
// @Description  Entering with a job or an existing draft pins the job and skips job selection; resuming pre-loads every saved section
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        request  body      StartWizardRequest  false  "Entry point"
// @Success      200      {object}  response.Response{data=domain.WizardState}
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /wizard/start [post]
// @Security     BearerAuth
func (h *WizardHandler) Start(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	state, err := h.wizardUC.Start(c.Request.Context(), userID, req.JobID, req.ApplicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wizard session started", state)
}

// Next godoc
// @Summary      Validate, persist and advance one step
// @Description  A validation failure leaves the session on the current step with nothing persisted
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string              true  "Wizard session ID"
// @Param        payload    body      domain.StepPayload  true  "Current step data"
// @Success      200        {object}  response.Response{data=domain.WizardState}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /wizard/{sessionID}/next [post]
// @Security     BearerAuth
func (h *WizardHandler) Next(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var payload domain.StepPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	state, err := h.wizardUC.Next(c.Request.Context(), userID, c.Param("sessionID"), &payload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Step completed", state)
}

// Back godoc
// @Summary      Return to the previous step
// @Tags         wizard
// @Produce      json
// @Param        sessionID  path      string  true  "Wizard session ID"
// @Success      200        {object}  response.Response{data=domain.WizardState}
// @Failure      404        {object}  response.Response
// @Router       /wizard/{sessionID}/back [post]
// @Security     BearerAuth
func (h *WizardHandler) Back(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	state, err := h.wizardUC.Back(c.Request.Context(), userID, c.Param("sessionID"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Step changed", state)
}

// SaveAndClose godoc
// @Summary      Save the current step as-is and end the session
// @Description  Persists even incomplete data so the draft can be resumed later; a confirmed pending row is kept, an unconfirmed one discarded
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string              true   "Wizard session ID"
// @Param        payload    body      domain.StepPayload  false  "Current step data"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /wizard/{sessionID}/save-close [post]
// @Security     BearerAuth
func (h *WizardHandler) SaveAndClose(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var payload domain.StepPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.wizardUC.SaveAndClose(c.Request.Context(), userID, c.Param("sessionID"), &payload); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Draft saved", nil)
}

// Exit godoc
// @Summary      Discard in-progress edits and end the session
// @Description  Requires confirm=true since unsaved step data is lost
// @Tags         wizard
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string             true  "Wizard session ID"
// @Param        request    body      ExitWizardRequest  true  "Confirmation"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /wizard/{sessionID}/exit [post]
// @Security     BearerAuth
func (h *WizardHandler) Exit(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req ExitWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.wizardUC.Exit(c.Request.Context(), userID, c.Param("sessionID"), req.Confirm); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wizard session closed", nil)
}
