package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/webprompt/promptengine/docs"
	"github.com/webprompt/promptengine/internal/config"
	"github.com/webprompt/promptengine/internal/middleware"
	"github.com/webprompt/promptengine/internal/modules/handler"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	Profiles       repo.ProfileRepo
	ProfileHandler *handler.ProfileHandler
	ProjectHandler *handler.ProjectHandler
	ChatHandler    *handler.ChatHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// registration happens before the caller has a key to present
	r.POST("/register", d.ProfileHandler.Register)

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.ProfileAuth(d.Profiles))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		v1.GET("/profile", d.ProfileHandler.GetProfile)
		v1.POST("/profile/plan", d.ProfileHandler.PurchasePlan)

		v1.GET("/catalog", d.ProjectHandler.GetCatalog)

		project := v1.Group("/project")
		{
			project.GET("", d.ProjectHandler.GetProjects)
			project.POST("", d.ProjectHandler.CreateProject)

			project.GET("/:project_id", d.ProjectHandler.GetProject)
			project.PUT("/:project_id", d.ProjectHandler.UpdateProject)
			project.DELETE("/:project_id", d.ProjectHandler.DeleteProject)

			project.GET("/:project_id/chat", d.ChatHandler.GetTranscript)
			project.POST("/:project_id/chat", d.ChatHandler.SubmitTurn)
		}
	}
	return r
}
