package handler

const (
	// RootPath is the root path of the JSON API.
	RootPath = "/api"

	// CompanyPath is the base path of the company scoped routes.
	CompanyPath = RootPath + "/companies/:company"

	// ErrNilACSFatalLogMsg is used if app, cfg or svc var pointer is nil.
	ErrNilACSFatalLogMsg = "app, cfg or permission service is nil"
)
