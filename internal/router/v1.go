package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/medical-prescription/internal/handler"
	"github.com/deppfellow/medical-prescription/internal/middleware"
	"github.com/deppfellow/medical-prescription/internal/model"
)

// registerV1Routes expects g to already require authentication. Everything
// except the account and messaging endpoints is reserved for health
// professionals.
func registerV1Routes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	g.GET("/me", handler.Handle(h.Account.Handler, h.Account.Me, http.StatusOK))

	registerMessageRoutes(g.Group("/messages"), h.Messages)

	hpOnly := auth.RequireRole(model.RoleHealthProfessional)

	g.GET("/diseases", handler.Handle(h.Catalog.Handler, h.Catalog.SearchDiseases, http.StatusOK), hpOnly)
	g.GET("/medicines", handler.Handle(h.Catalog.Handler, h.Catalog.SearchMedicines, http.StatusOK), hpOnly)
	g.GET("/exams", handler.Handle(h.Catalog.Handler, h.Catalog.SearchDefaultExams, http.StatusOK), hpOnly)

	patients := g.Group("/patients", hpOnly)
	patients.POST("", handler.Handle(h.Patients.Handler, h.Patients.Create, http.StatusCreated))
	patients.GET("", handler.Handle(h.Patients.Handler, h.Patients.List, http.StatusOK))
	patients.GET("/:id", handler.Handle(h.Patients.Handler, h.Patients.Get, http.StatusOK))
	patients.GET("/:id/files", handler.Handle(h.Patients.Handler, h.Patients.Files, http.StatusOK))

	manipulated := g.Group("/manipulated-medicines", hpOnly)
	manipulated.POST("", handler.Handle(h.ManipulatedMedicines.Handler, h.ManipulatedMedicines.Create, http.StatusCreated))
	manipulated.GET("", handler.Handle(h.ManipulatedMedicines.Handler, h.ManipulatedMedicines.List, http.StatusOK))
	manipulated.GET("/:id", handler.Handle(h.ManipulatedMedicines.Handler, h.ManipulatedMedicines.Get, http.StatusOK))
	manipulated.PUT("/:id", handler.Handle(h.ManipulatedMedicines.Handler, h.ManipulatedMedicines.Update, http.StatusOK))
	manipulated.DELETE("/:id", handler.HandleNoContent(h.ManipulatedMedicines.Handler, h.ManipulatedMedicines.Delete, http.StatusNoContent))

	customExams := g.Group("/custom-exams", hpOnly)
	customExams.POST("", handler.Handle(h.CustomExams.Handler, h.CustomExams.Create, http.StatusCreated))
	customExams.GET("", handler.Handle(h.CustomExams.Handler, h.CustomExams.List, http.StatusOK))
	customExams.GET("/:id", handler.Handle(h.CustomExams.Handler, h.CustomExams.Get, http.StatusOK))
	customExams.PUT("/:id", handler.Handle(h.CustomExams.Handler, h.CustomExams.Update, http.StatusOK))
	customExams.DELETE("/:id", handler.HandleNoContent(h.CustomExams.Handler, h.CustomExams.Delete, http.StatusNoContent))

	patterns := g.Group("/patterns", hpOnly)
	patterns.POST("", handler.Handle(h.Patterns.Handler, h.Patterns.Create, http.StatusCreated))
	patterns.GET("", handler.Handle(h.Patterns.Handler, h.Patterns.List, http.StatusOK))
	patterns.GET("/:id", handler.Handle(h.Patterns.Handler, h.Patterns.Get, http.StatusOK))
	patterns.PUT("/:id", handler.Handle(h.Patterns.Handler, h.Patterns.Update, http.StatusOK))
	patterns.DELETE("/:id", handler.HandleNoContent(h.Patterns.Handler, h.Patterns.Delete, http.StatusNoContent))
	patterns.PUT("/:id/logo", handler.Handle(h.Patterns.Handler, h.Patterns.SetLogo, http.StatusOK))

	prescriptions := g.Group("/prescriptions", hpOnly)
	prescriptions.GET("/new", handler.Handle(h.Prescriptions.Handler, h.Prescriptions.New, http.StatusOK))
	prescriptions.POST("", handler.Handle(h.Prescriptions.Handler, h.Prescriptions.Create, http.StatusOK))
	prescriptions.GET("", handler.Handle(h.Prescriptions.Handler, h.Prescriptions.List, http.StatusOK))
	prescriptions.GET("/:id", handler.Handle(h.Prescriptions.Handler, h.Prescriptions.Get, http.StatusOK))
	prescriptions.DELETE("/:id", handler.HandleNoContent(h.Prescriptions.Handler, h.Prescriptions.Delete, http.StatusNoContent))
	prescriptions.GET("/:id/pdf", handler.HandleFile(h.Prescriptions.Handler, h.Prescriptions.PDF, http.StatusOK,
		h.Prescriptions.Filename(), "application/pdf"))
	prescriptions.POST("/:id/email", handler.Handle(h.Prescriptions.Handler, h.Prescriptions.Email, http.StatusAccepted))
}

func registerMessageRoutes(g *echo.Group, h *handler.MessageHandler) {
	g.POST("", handler.Handle(h.Handler, h.Compose, http.StatusCreated))
	g.GET("/inbox", handler.Handle(h.Handler, h.Inbox, http.StatusOK))
	g.GET("/outbox", handler.Handle(h.Handler, h.Outbox, http.StatusOK))
	g.GET("/archive", handler.Handle(h.Handler, h.Archived, http.StatusOK))
	g.GET("/unread-count", handler.Handle(h.Handler, h.UnreadCount, http.StatusOK))
	g.GET("/recipients", handler.Handle(h.Handler, h.Recipients, http.StatusOK))
	g.GET("/:id", handler.Handle(h.Handler, h.View, http.StatusOK))
	g.POST("/:id/reply", handler.Handle(h.Handler, h.Reply, http.StatusCreated))
	g.POST("/:id/archive", handler.HandleNoContent(h.Handler, h.Archive, http.StatusNoContent))
	g.POST("/:id/unarchive", handler.HandleNoContent(h.Handler, h.Unarchive, http.StatusNoContent))
	g.GET("/:id/attachment", handler.HandleDownload(h.Handler, h.Attachment, http.StatusOK))
}
