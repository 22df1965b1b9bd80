package services

import (
	"github.com/SampleBase/samplebase-services/db"
	"github.com/SampleBase/samplebase-services/internal/appconfig"
	"github.com/SampleBase/samplebase-services/internal/authn"
	"github.com/SampleBase/samplebase-services/internal/mailer"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config *appconfig.Config
	DB     db.Store
	Issuer *authn.Issuer
	Mailer *mailer.Mailer
}
