package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	cfg := a.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.Recovery(a.Logger))
	r.Use(middleware.RequestLogger(a.Logger))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// HANDLERS
	// ======================================================
	salonHandler := handlers.NewSalonHandler(a.DB)
	staffHandler := handlers.NewStaffHandler(a.DB)
	serviceHandler := handlers.NewServiceHandler(a.DB)
	clientHandler := handlers.NewClientHandler(a.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(a.DB)

	workingHoursHandler := handlers.NewWorkingHoursHandler(
		a.Schedules,
		a.Appointments,
		a.Audit,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		a.Appointments,
		a.CreateAppointment,
		a.TransitionAppointment,
		a.RescheduleAppointment,
		a.LockSlot,
		a.ReleaseSlot,
	)

	calendarHandler := handlers.NewCalendarHandler(
		a.ListByDate,
		a.ListByMonth,
		a.Availability,
		a.ExportCalendar,
	)

	waitlistHandler := handlers.NewWaitlistHandler(
		a.CreateWaitlistEntry,
		a.ListWaitlist,
		a.CancelWaitlistEntry,
		a.CheckMatches,
		a.NotifyMatch,
	)

	smsHandler := handlers.NewSMSHandler(a.HandleReply)
	notificationHandler := handlers.NewNotificationHandler(a.Notifier)
	realtimeHandler := handlers.NewRealtimeHandler(a.Hub)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// ------------------------------
		// SMS WEBHOOK
		// ------------------------------
		api.POST("/sms/inbound",
			middleware.WebhookAuth(cfg.SMSWebhookToken),
			middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
			smsHandler.Inbound,
		)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/ws", realtimeHandler.Stream)

			secured.GET("/me/salon", salonHandler.GetMeSalon)
			secured.PATCH("/me/salon", salonHandler.UpdateMeSalon)

			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", staffHandler.Create)
			secured.PATCH("/staff/:id", staffHandler.Update)

			secured.GET("/staff/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/staff/:id/working-hours", workingHoursHandler.Update)
			secured.GET("/staff/:id/overrides", workingHoursHandler.ListOverrides)
			secured.POST("/staff/:id/overrides", workingHoursHandler.CreateOverride)
			secured.DELETE("/staff/:id/overrides/:overrideID", workingHoursHandler.DeleteOverride)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			limited := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
			secured.POST("/appointments/lock", limited, appointmentHandler.Lock)
			secured.DELETE("/appointments/lock/:id", appointmentHandler.Unlock)

			secured.POST("/appointments", limited, appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			secured.POST("/appointments/:id/confirm", appointmentHandler.Transition(domain.StatusConfirmed))
			secured.POST("/appointments/:id/check-in", appointmentHandler.Transition(domain.StatusCheckedIn))
			secured.POST("/appointments/:id/start", appointmentHandler.Transition(domain.StatusInProgress))
			secured.POST("/appointments/:id/complete", appointmentHandler.Transition(domain.StatusCompleted))
			secured.POST("/appointments/:id/cancel", appointmentHandler.Transition(domain.StatusCancelled))
			secured.POST("/appointments/:id/no-show", appointmentHandler.Transition(domain.StatusNoShow))

			// ------------------------------
			// CALENDAR
			// ------------------------------
			secured.GET("/calendar", calendarHandler.Day)
			secured.GET("/calendar/month", calendarHandler.Month)
			secured.GET("/calendar/availability", calendarHandler.Availability)
			secured.GET("/calendar/export", calendarHandler.Export)

			// ------------------------------
			// WAITLIST
			// ------------------------------
			secured.POST("/waitlist", waitlistHandler.Create)
			secured.GET("/waitlist", waitlistHandler.List)
			secured.DELETE("/waitlist/:id", waitlistHandler.Cancel)
			secured.GET("/waitlist/matches/check", waitlistHandler.CheckMatches)
			secured.POST("/waitlist/:id/notify", waitlistHandler.Notify)

			secured.POST("/notifications/process", notificationHandler.Process)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
