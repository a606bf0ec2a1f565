package rest

const (
	// pages
	RouteHome   = "/"
	RouteSignup = "/signup"
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	RouteFolders     = "/folders"
	RouteFolder      = RouteFolders + "/:id"
	RouteFolderFiles = RouteFolder + "/files"

	RouteFiles              = "/files"
	RouteFile               = RouteFiles + "/:id"
	RouteFileDownload       = RouteFile + "/download"
	RouteFileDownloadDirect = RouteFile + "/download-direct"

	// local backend signed urls
	RouteBlob = "/blobs/:token"

	// api
	RouteApiV1 = "/api/v1"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
