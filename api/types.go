package api

import "github.com/rpupo63/portfolio-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler       contentHandler[models.Project, models.ProjectInput]
	blogHandler          contentHandler[models.Blog, models.BlogInput]
	certificationHandler contentHandler[models.Certification, models.CertificationInput]
	authHandler          authHandler
	uploadHandler        uploadHandler
	contactHandler       contactHandler
	healthHandler        healthHandler
}
