package v1

import (
	"net/http"

	"recruitment-portal-backend/config"
	"recruitment-portal-backend/internal/delivery/http/middleware"
	"recruitment-portal-backend/internal/delivery/http/response"
	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/internal/usecase"
	"recruitment-portal-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	JobUC        domain.JobUsecase
	CandidateUC  domain.CandidateUsecase
	DraftUC      domain.DraftUsecase
	SubmissionUC domain.SubmissionUsecase
	UploadUC     domain.UploadUsecase
	WizardUC     domain.WizardUsecase
	Engine       *usecase.PreferenceEngine
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middlewares. CORS must run first so even rejected requests get
	// the right headers.
	r.Use(middleware.CORSMiddleware(deps.Config))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config, deps.CandidateUC))
	{
		NewJobHandler(v1, protected, deps.JobUC, deps.DraftUC)
		NewCandidateHandler(protected, deps.CandidateUC)
		NewApplicationHandler(protected, deps.DraftUC, deps.SubmissionUC, deps.JobUC, deps.Engine)
		NewUploadHandler(protected, deps.UploadUC)
		NewWizardHandler(protected, deps.WizardUC)
	}

	return r
}
