package v1

import (
	"net/http"
	"strconv"

	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC   domain.JobUsecase
	draftUC domain.DraftUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase, draftUC domain.DraftUsecase) {
	handler := &JobHandler{jobUC: jobUC, draftUC: draftUC}

	// PUBLIC routes - job catalog is browsable without an account
	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("/public", handler.PublicList)
		publicJobs.GET("/public/:id", handler.PublicGetDetails)
	}

	// PROTECTED routes - list carries the per-candidate applied flag
	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.GET("", handler.List)
		protectedJobs.GET("/:id", handler.GetDetails)
	}
}

// jobListItem decorates a job with the caller's application state.
type jobListItem struct {
	domain.Job
	AlreadyApplied bool `json:"already_applied"`
}

// PublicList godoc
// @Summary      List job postings
// @Description  Paginated job catalog, no authentication required
// @Tags         jobs
// @Produce      json
// @Param        page       query  int  false  "Page number"
// @Param        page_size  query  int  false  "Results per page"
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Router       /jobs/public [get]
func (h *JobHandler) PublicList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":  jobs,
		"total": total,
	})
}

// PublicGetDetails godoc
// @Summary      Get job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /jobs/public/{id} [get]
func (h *JobHandler) PublicGetDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	job, err := h.jobUC.GetJobDetails(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// List godoc
// @Summary      List jobs with application state
// @Description  Same catalog as the public list, with an already_applied flag per job
// @Tags         jobs
// @Produce      json
// @Param        page       query  int  false  "Page number"
// @Param        page_size  query  int  false  "Results per page"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	applied, err := h.draftUC.AppliedJobIDs(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]jobListItem, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, jobListItem{Job: job, AlreadyApplied: applied[job.ID]})
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", gin.H{
		"jobs":  items,
		"total": total,
	})
}

// GetDetails godoc
// @Summary      Get job details with application state
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	job, err := h.jobUC.GetJobDetails(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	applied, err := h.draftUC.AppliedJobIDs(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", jobListItem{Job: *job, AlreadyApplied: applied[job.ID]})
}
