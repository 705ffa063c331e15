package api

import (
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

type (
	projectService       = services.ContentService[models.Project, *models.Project, models.ProjectInput]
	blogService          = services.ContentService[models.Blog, *models.Blog, models.BlogInput]
	certificationService = services.ContentService[models.Certification, *models.Certification, models.CertificationInput]
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, tokens *auth.TokenService, rt router) *routeHandlers {
	defaultImage := rt.settings.DefaultImageURL

	var (
		projects       *projectService       = services.NewContentService[models.Project, *models.Project, models.ProjectInput]("project", db.ProjectRepo(), defaultImage)
		blogs          *blogService          = services.NewContentService[models.Blog, *models.Blog, models.BlogInput]("blog", db.BlogRepo(), defaultImage)
		certifications *certificationService = services.NewContentService[models.Certification, *models.Certification, models.CertificationInput]("certification", db.CertificationRepo(), defaultImage)
	)

	return &routeHandlers{
		projectHandler:       newContentHandler[models.Project, models.ProjectInput](projects),
		blogHandler:          newContentHandler[models.Blog, models.BlogInput](blogs),
		certificationHandler: newContentHandler[models.Certification, models.CertificationInput](certifications),
		authHandler:          newAuthHandler(services.NewAuthService(db.AdminRepo(), tokens), rt.settings.IsProduction()),
		uploadHandler:        newUploadHandler(rt.uploader, rt.settings.UploadMaxBytes),
		contactHandler:       newContactHandler(rt.contact),
		healthHandler:        newHealthHandler(rt.startupTime),
	}
}
