package v1

import (
	"net/http"
	"strconv"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/internal/usecase"
	"recruitment-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	draftUC      domain.DraftUsecase
	submissionUC domain.SubmissionUsecase
	jobUC        domain.JobUsecase
	engine       *usecase.PreferenceEngine
}

func NewApplicationHandler(r *gin.RouterGroup, draftUC domain.DraftUsecase, submissionUC domain.SubmissionUsecase, jobUC domain.JobUsecase, engine *usecase.PreferenceEngine) {
	handler := &ApplicationHandler{
		draftUC:      draftUC,
		submissionUC: submissionUC,
		jobUC:        jobUC,
		engine:       engine,
	}

	apps := r.Group("/applications")
	{
		apps.POST("/draft", handler.StartDraft)
		apps.GET("", handler.List)
		apps.GET("/:id", handler.GetDetail)
		apps.POST("/:id/submit", handler.Submit)

		apps.PUT("/:id/preferences", handler.SavePreferences)
		apps.POST("/:id/preferences/toggle", handler.TogglePreference)

		apps.PUT("/:id/personal-info", handler.SavePersonalInfo)

		apps.POST("/:id/experiences", handler.SaveExperience)
		apps.DELETE("/:id/experiences/:itemID", handler.DeleteExperience)

		apps.POST("/:id/educations", handler.SaveEducation)
		apps.DELETE("/:id/educations/:itemID", handler.DeleteEducation)
	}
}

type StartDraftRequest struct {
	JobID *int64 `json:"job_id"`
}

type SavePreferencesRequest struct {
	Countries []string `json:"countries_preference"`
	Trades    []string `json:"trades_preference"`
}

type TogglePreferenceRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=country trade"`
	Value string `json:"value" binding:"required"`
}

// StartDraft godoc
// @Summary      Open (or resume) a draft application
// @Description  Returns the one open draft for the candidate and job; a general draft when job_id is omitted
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request  body      StartDraftRequest  false  "Target job"
// @Success      200      {object}  response.Response{data=domain.Application}
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/draft [post]
// @Security     BearerAuth
func (h *ApplicationHandler) StartDraft(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.draftUC.GetOrCreateDraft(c.Request.Context(), userID, req.JobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Draft ready", app)
}

// List godoc
// @Summary      List the candidate's applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	apps, err := h.draftUC.ListApplications(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// GetDetail godoc
// @Summary      Get one application with every section
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.ApplicationDetail}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetDetail(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	detail, err := h.draftUC.GetDetail(c.Request.Context(), userID, appID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", detail)
}

// Submit godoc
// @Summary      Submit a draft application
// @Description  Finalizes the draft; afterwards the application is read-only for the candidate
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /applications/{id}/submit [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	if err := h.submissionUC.Submit(c.Request.Context(), userID, appID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application submitted", nil)
}

// SavePreferences godoc
// @Summary      Save the preference section
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Application ID"
// @Param        request  body      SavePreferencesRequest  true  "Selected countries and trades"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/preferences [put]
// @Security     BearerAuth
func (h *ApplicationHandler) SavePreferences(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	var req SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.draftUC.SavePreferences(c.Request.Context(), userID, appID, req.Countries, req.Trades); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Preferences saved", nil)
}

// TogglePreference godoc
// @Summary      Try one preference toggle
// @Description  Applies a single country/trade toggle against the job's limits without persisting; the response carries the verdict and resulting selection
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Application ID"
// @Param        request  body      TogglePreferenceRequest  true  "Toggle"
// @Success      200      {object}  response.Response{data=usecase.PreferenceDecision}
// @Failure      400      {object}  response.Response
// @Router       /applications/{id}/preferences/toggle [post]
// @Security     BearerAuth
func (h *ApplicationHandler) TogglePreference(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	var req TogglePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	detail, err := h.draftUC.GetDetail(c.Request.Context(), userID, appID)
	if err != nil {
		c.Error(err)
		return
	}
	if detail.Application.JobID == nil {
		c.Error(apperror.BadRequest("General applications have no job preference limits"))
		return
	}

	job, err := h.jobForToggle(c, detail)
	if err != nil {
		return
	}

	var decision usecase.PreferenceDecision
	if req.Kind == "country" {
		decision = h.engine.ToggleCountry(detail.Preferences.Countries, req.Value, job)
	} else {
		decision = h.engine.ToggleTrade(detail.Preferences.Trades, req.Value, job)
	}

	response.Success(c, http.StatusOK, "Toggle evaluated", decision)
}

// SavePersonalInfo godoc
// @Summary      Save the personal info section
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true   "Application ID"
// @Param        partial  query     bool                      false  "Skip completeness validation (save-and-close)"
// @Param        request  body      domain.PersonalInfoInput  true   "Personal info"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /applications/{id}/personal-info [put]
// @Security     BearerAuth
func (h *ApplicationHandler) SavePersonalInfo(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	var in domain.PersonalInfoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	partial := c.Query("partial") == "true"
	if err := h.draftUC.SavePersonalInfo(c.Request.Context(), userID, appID, &in, partial); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Personal information saved", nil)
}

// SaveExperience godoc
// @Summary      Add or update one experience record
// @Description  Creates when the body id is zero, updates the matching record otherwise
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Application ID"
// @Param        request  body      domain.ExperienceInput  true  "Experience record"
// @Success      200      {object}  response.Response{data=domain.Experience}
// @Failure      400      {object}  response.Response
// @Router       /applications/{id}/experiences [post]
// @Security     BearerAuth
func (h *ApplicationHandler) SaveExperience(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	var in domain.ExperienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	exp, err := h.draftUC.SaveExperience(c.Request.Context(), userID, appID, &in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Experience saved", exp)
}

// DeleteExperience godoc
// @Summary      Delete one experience record
// @Description  Requires confirm=true; deletion is immediate and not undoable
// @Tags         applications
// @Produce      json
// @Param        id       path   int   true  "Application ID"
// @Param        itemID   path   int   true  "Experience ID"
// @Param        confirm  query  bool  true  "Confirmation"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/{id}/experiences/{itemID} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteExperience(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid record ID"))
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.draftUC.DeleteExperience(c.Request.Context(), userID, appID, itemID, confirmed); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Experience deleted", nil)
}

// SaveEducation godoc
// @Summary      Add or update one education record
// @Description  Creates when the body id is zero, updates the matching record otherwise
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Application ID"
// @Param        request  body      domain.EducationInput  true  "Education record"
// @Success      200      {object}  response.Response{data=domain.Education}
// @Failure      400      {object}  response.Response
// @Router       /applications/{id}/educations [post]
// @Security     BearerAuth
func (h *ApplicationHandler) SaveEducation(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}

	var in domain.EducationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	edu, err := h.draftUC.SaveEducation(c.Request.Context(), userID, appID, &in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Education saved", edu)
}

// DeleteEducation godoc
// @Summary      Delete one education record
// @Description  Requires confirm=true; deletion is immediate and not undoable
// @Tags         applications
// @Produce      json
// @Param        id       path   int   true  "Application ID"
// @Param        itemID   path   int   true  "Education ID"
// @Param        confirm  query  bool  true  "Confirmation"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications/{id}/educations/{itemID} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteEducation(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	appID, err := h.applicationID(c)
	if err != nil {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid record ID"))
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.draftUC.DeleteEducation(c.Request.Context(), userID, appID, itemID, confirmed); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Education deleted", nil)
}

func (h *ApplicationHandler) jobForToggle(c *gin.Context, detail *domain.ApplicationDetail) (*domain.Job, error) {
	job, err := h.jobUC.GetJobDetails(c.Request.Context(), *detail.Application.JobID)
	if err != nil {
		c.Error(err)
		return nil, err
	}
	return job, nil
}

func (h *ApplicationHandler) applicationID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return 0, err
	}
	return id, nil
}
