package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	consentService service.ConsentService,
	coachService service.CoachService,
	clientService service.ClientService,
	exerciseService service.ExerciseService,
	adminService service.AdminService,
) {
	authHandler := NewAuthHandler(authService)
	consentHandler := NewConsentHandler(consentService, clientService)
	coachHandler := NewCoachHandler(coachService, consentService)
	clientHandler := NewClientHandler(clientService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	adminHandler := NewAdminHandler(adminService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Exercise Routes ---
		// Open to every role; members see the shared catalog plus their own.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		// --- Client: consent management ---
		member := protected.Group("")
		member.Use(RoleMiddleware(domain.RoleUser))
		{
			member.GET("/trainers", consentHandler.ListTrainers)

			consents := member.Group("/consents")
			consents.GET("", consentHandler.ListConsents)
			consents.POST("", consentHandler.CreateConsent)
			consents.PATCH("/:id", consentHandler.UpdateConsent)
			consents.POST("/:id/revoke", consentHandler.RevokeConsent)
			consents.POST("/:id/hide", consentHandler.HideConsent)
			consents.POST("/:id/restore", consentHandler.RestoreConsent)
		}

		// --- Client: own data ---
		me := protected.Group("/me")
		me.Use(RoleMiddleware(domain.RoleUser))
		{
			me.GET("/sessions", clientHandler.ListMySessions)
			me.POST("/sessions", clientHandler.LogSession)
			me.GET("/sessions/:id", clientHandler.GetMySession)
			me.POST("/sessions/:id/comments", clientHandler.CommentOnMySession)
			me.POST("/sessions/:id/media/upload-url", clientHandler.RequestUploadURL)
			me.POST("/sessions/:id/media", clientHandler.ConfirmUpload)
			me.GET("/sessions/:id/media/:mediaId", clientHandler.MediaURL)

			me.GET("/planned-sessions", clientHandler.ListMyPlannedSessions)
			me.POST("/planned-sessions/:id/accept", clientHandler.AcceptPlannedSession)
			me.POST("/planned-sessions/:id/reject", clientHandler.RejectPlannedSession)

			me.GET("/proposals", clientHandler.ListMyProposals)
			me.POST("/proposals/:id/accept", clientHandler.AcceptProposal)
			me.POST("/proposals/:id/reject", clientHandler.RejectProposal)
			me.GET("/routines", clientHandler.ListMyRoutines)
		}

		// --- Trainer: consent-gated client data ---
		// The role check here is coarse; each operation is also checked
		// against the client's consent and its scopes.
		coach := protected.Group("/coach")
		coach.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			coach.GET("/consents", coachHandler.ListMyGrants)

			client := coach.Group("/clients/:clientId")
			client.GET("/sessions", coachHandler.ListSessions)
			client.GET("/sessions/:sessionId", coachHandler.GetSession)
			client.GET("/sessions/:sessionId/comments", coachHandler.ListComments)
			client.POST("/sessions/:sessionId/comments", coachHandler.CommentOnSession)
			client.GET("/sessions/:sessionId/media/:mediaId", coachHandler.SessionMediaURL)

			client.GET("/planned-sessions", coachHandler.ListPlannedSessions)
			client.POST("/planned-sessions", coachHandler.CreatePlannedSession)
			client.PATCH("/planned-sessions/:planId", coachHandler.UpdatePlannedSession)
			client.DELETE("/planned-sessions/:planId", coachHandler.DeletePlannedSession)

			client.GET("/progress", coachHandler.Progress)
			client.GET("/prs", coachHandler.PersonalRecords)
			client.GET("/routines", coachHandler.ListRoutines)
			client.GET("/proposals", coachHandler.ListProposals)
			client.POST("/proposals", coachHandler.ProposeRoutine)
			client.GET("/exercises", coachHandler.ExerciseCatalog)
			client.GET("/membership", coachHandler.Membership)
		}

		// --- Admin ---
		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.GET("/members", adminHandler.ListMembers)
			admin.PUT("/members/:clientId/membership", adminHandler.SetMembership)
		}
	}
}
