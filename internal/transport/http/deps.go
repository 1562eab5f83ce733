package http

import (
	"github.com/go-marketing-api/internal/application/campaign"
	"github.com/go-marketing-api/internal/application/verify"
	"github.com/go-marketing-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-marketing-api/internal/infrastructure/jwt"
	s3infra "github.com/go-marketing-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router.
//
// Mailer and SMSSender may be nil; the campaign service then rejects
// dispatches for the corresponding channel with a credentials error.
// A nil JWTProvider disables authentication, which is only acceptable
// for local development.
type Deps struct {
	BatchRepo       *dynamo.BatchRepo
	ResultRepo      *dynamo.ResultRepo
	CampaignRepo    *dynamo.CampaignRepo
	AnalyticsRepo   *dynamo.AnalyticsRepo
	ContactRepo     *dynamo.ContactRepo
	ContactListRepo *dynamo.ContactListRepo
	MembershipRepo  *dynamo.MembershipRepo
	S3Store         *s3infra.Store
	Mailer          campaign.Mailer
	SMSSender       campaign.SMSSender
	JWTProvider     *jwtinfra.Provider
	Classifier      *verify.Classifier
}
