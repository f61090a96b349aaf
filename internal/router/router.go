package router

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/planme-app/planme-backend/internal/auth"
	"github.com/planme-app/planme-backend/internal/bucketlist"
	"github.com/planme-app/planme-backend/internal/config"
	"github.com/planme-app/planme-backend/internal/expenses"
	"github.com/planme-app/planme-backend/internal/health"
	"github.com/planme-app/planme-backend/internal/misc"
	"github.com/planme-app/planme-backend/internal/plans"
	"github.com/planme-app/planme-backend/internal/scheduler"
	"github.com/planme-app/planme-backend/internal/templates"
	"github.com/planme-app/planme-backend/internal/users"
	"github.com/planme-app/planme-backend/internal/validate"
	"gorm.io/gorm"
)

// New wires every route of the PlanMe API onto a gin engine.
func New(
	cfg *config.Config,
	db *gorm.DB,
	runner *scheduler.Runner,
	lastRun *scheduler.LastRunCache,
	categories []expenses.Category,
	logger *slog.Logger,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("planme_session", store))

	// OAuth flow (session-based; the legacy API below remains keyed by
	// user_id for the mobile client)
	r.GET("/auth/google", auth.HandleLogin)
	r.GET("/auth/google/callback", auth.HandleCallback(db))
	r.GET("/auth/logout", auth.HandleLogout)

	api := r.Group("/api")
	{
		api.GET("/health", gin.WrapF(health.Handler))

		api.GET("/me", auth.RequireAuth(), auth.MeHandler(db))

		user := api.Group("/user")
		{
			user.POST("/check", users.CheckUserHandler(db))
			user.GET("/:userId", users.GetUserHandler(db))
			user.PUT("/:userId", users.UpdateUserHandler(db))
			user.DELETE("/:userId", users.DeleteUserHandler(db))
		}

		dayPlan := api.Group("/plan_day")
		{
			dayPlan.POST("", plans.SaveDayPlanHandler(db))
			dayPlan.GET("/:userId", plans.GetUserDayPlansHandler(db))
			dayPlan.GET("/detail/:planId", plans.GetDayPlanHandler(db))
			dayPlan.PUT("/:planId", plans.UpdateDayPlanHandler(db))
			dayPlan.DELETE("/:planId", plans.DeleteDayPlanHandler(db))
		}

		api.POST("/addPlan", validate.Body(validate.DailyPlan), plans.AddPlanHandler(db))
		api.GET("/getAllPlansForDate", validate.QueryParams("userId", "date"), plans.GetAllPlansForDateHandler(db))
		api.PUT("/updatePlan", validate.Body(validate.PlanUpdate), plans.UpdatePlanHandler(db))
		api.GET("/daily-plans/:userId", plans.GetUserDailyPlansHandler(db))

		sched := api.Group("/scheduler")
		{
			sched.POST("/run-daily-check", scheduler.RunNowHandler(runner, lastRun, logger))
			sched.GET("/status", scheduler.StatusHandler(cfg, lastRun))
		}

		tmpl := api.Group("/templates")
		{
			tmpl.POST("", validate.Body(validate.Template), templates.CreateTemplateHandler(db))
			tmpl.GET("/:userId", templates.ListTemplatesHandler(db))
			tmpl.GET("/:userId/:templateId", templates.GetTemplateHandler(db))
			tmpl.PUT("/:userId/:templateId", templates.UpdateTemplateHandler(db))
			tmpl.DELETE("/:userId/:templateId", templates.DeleteTemplateHandler(db))
		}

		bucket := api.Group("/bucket-list")
		{
			bucket.GET("/:userId", bucketlist.GetHandler(db))
			bucket.POST("/:userId", bucketlist.AddItemHandler(db))
			bucket.PUT("/:userId", bucketlist.UpdateHandler(db))
			bucket.PUT("/:userId/reorder", bucketlist.ReorderHandler(db))
		}

		expense := api.Group("/expenses")
		{
			expense.GET("/categories", expenses.CategoriesHandler(categories))
			expense.POST("/:userId", expenses.AddHandler(db))
			expense.GET("/:userId", validate.QueryParams("from", "to"), expenses.ListHandler(db))
			expense.GET("/:userId/summary", validate.QueryParams("from", "to"), expenses.SummaryHandler(db))
		}

		miscGroup := api.Group("/misc")
		{
			miscGroup.GET("/today/:userId", misc.GetTodayHandler(db))
			miscGroup.PUT("/today/:userId/protein", misc.AddProteinHandler(db))
			miscGroup.GET("/protein-history/:userId", misc.ProteinHistoryHandler(db))
		}
	}

	return r
}
