package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuctionRoutes(mux *http.ServeMux, handler *Handler, auth Middleware) {
	mux.HandleFunc("GET /auctions/{year}/bid", handler.ListBids)
	mux.HandleFunc("GET /auctions/{year}/players", handler.ListAuctionedPlayers)
	mux.Handle("POST /auctions/{year}/bid", auth(http.HandlerFunc(handler.SubmitBid)))
	mux.Handle("POST /auctions", auth(http.HandlerFunc(handler.RecordAuction)))
	mux.Handle("POST /auctions/{year}/players/{playerID}/finalize", auth(http.HandlerFunc(handler.FinalizeAuction)))
	mux.Handle("POST /auctions/{year}/players/{playerID}/reopen", auth(http.HandlerFunc(handler.ReopenAuction)))
}

func registerContractRoutes(mux *http.ServeMux, handler *Handler, auth Middleware) {
	mux.HandleFunc("GET /contracts/by-season", handler.ListSeasonContracts)
	mux.HandleFunc("GET /contracts/{season}/team/{teamID}", handler.GetTeamSeasonContracts)
	mux.Handle("POST /contracts", auth(http.HandlerFunc(handler.CreateContract)))
	mux.Handle("POST /contracts/{contractID}/release", auth(http.HandlerFunc(handler.ReleaseContract)))
	mux.Handle("PUT /contracts/{contractID}/captaincy", auth(http.HandlerFunc(handler.AssignCaptaincy)))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /players/{playerID}/contracts", handler.ListPlayerContracts)
	mux.HandleFunc("GET /players/{playerID}/auction-history", handler.GetPlayerAuctionHistory)
}

func registerSalaryCapRoutes(mux *http.ServeMux, handler *Handler, auth Middleware) {
	mux.HandleFunc("GET /salary-caps/{season}/team/{teamID}", handler.GetSalaryCap)
	mux.Handle("PUT /salary-caps/{season}/team/{teamID}", auth(http.HandlerFunc(handler.ConfigureSalaryCap)))
	mux.Handle("POST /salary-caps/{season}/team/{teamID}/recompute", auth(http.HandlerFunc(handler.RecomputeSalaryCap)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internal Middleware) {
	mux.Handle("POST /salary-caps/{season}/recompute", internal(http.HandlerFunc(handler.RecomputeSeasonSalaryCaps)))
}
